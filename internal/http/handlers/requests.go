package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"server/internal/domain"
)

// Optional fields are pointers so an omitted field (defaulted) and an
// explicit zero value (rejected by validation) stay distinguishable.
type generatePayload struct {
	InputText string  `json:"input_text"`
	ExportAs  *string `json:"export_as"`
	NumCards  *int    `json:"num_cards"`
}

// decodeGenerationRequest parses, normalizes, and validates the request body
// shared by the sync and async generation endpoints.
func decodeGenerationRequest(r *http.Request) (domain.GenerationRequest, error) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("%w: invalid JSON payload", domain.ErrInvalidInput)
	}
	req := domain.GenerationRequest{
		InputText: payload.InputText,
		ExportAs:  domain.ExportPDF,
		NumCards:  domain.DefaultNumCards,
	}
	if payload.ExportAs != nil {
		req.ExportAs = domain.ExportFormat(*payload.ExportAs)
	}
	if payload.NumCards != nil {
		req.NumCards = *payload.NumCards
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.GenerationRequest{}, err
	}
	return req, nil
}
