package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ExportFormat enumerates the file formats the provider can export.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportPPTX ExportFormat = "pptx"
)

// MIME returns the content type served for downloads of this format.
func (f ExportFormat) MIME() string {
	if f == ExportPPTX {
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}
	return "application/pdf"
}

const (
	MinInputTextLen = 10
	MaxInputTextLen = 5000
	MinNumCards     = 1
	MaxNumCards     = 10
	DefaultNumCards = 5
)

// GenerationRequest is the validated input for one presentation generation.
type GenerationRequest struct {
	InputText string
	ExportAs  ExportFormat
	NumCards  int
}

// Normalize trims surrounding whitespace from the input text. Defaults for
// omitted fields are the decoder's job: only it can tell an absent field from
// an explicit zero value, and explicit zeroes must reach Validate untouched.
func (r *GenerationRequest) Normalize() {
	r.InputText = strings.TrimSpace(r.InputText)
}

// Validate rejects out-of-range fields before any provider call is made.
func (r GenerationRequest) Validate() error {
	if n := utf8.RuneCountInString(r.InputText); n < MinInputTextLen || n > MaxInputTextLen {
		return fmt.Errorf("%w: input_text length must be between %d and %d characters, got %d",
			ErrInvalidInput, MinInputTextLen, MaxInputTextLen, n)
	}
	if r.ExportAs != ExportPDF && r.ExportAs != ExportPPTX {
		return fmt.Errorf("%w: export_as must be %q or %q", ErrInvalidInput, ExportPDF, ExportPPTX)
	}
	if r.NumCards < MinNumCards || r.NumCards > MaxNumCards {
		return fmt.Errorf("%w: num_cards must be between %d and %d", ErrInvalidInput, MinNumCards, MaxNumCards)
	}
	return nil
}
