package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

var fileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.(pdf|pptx)$`)

// DownloadFile streams a stored presentation as a binary attachment.
func (a *App) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "file_name")
	if !fileNamePattern.MatchString(fileName) {
		a.error(w, http.StatusBadRequest, "invalid file name format")
		return
	}

	f, info, err := a.Files.Open(fileName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "file not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	format := domain.ExportPDF
	if strings.HasSuffix(fileName, ".pptx") {
		format = domain.ExportPPTX
	}
	w.Header().Set("Content-Type", format.MIME())
	w.Header().Set("Content-Disposition", `attachment; filename=`+fileName)
	http.ServeContent(w, r, fileName, info.ModTime(), f)
}
