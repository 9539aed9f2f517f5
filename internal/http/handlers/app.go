package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/jobs"
	"server/internal/storage"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Logger infra.Logger
	Jobs   *jobs.Store
	Runner *jobs.Runner
	Files  *storage.FileStore
}

// NewApp constructs the handler container.
func NewApp(logger infra.Logger, store *jobs.Store, runner *jobs.Runner, files *storage.FileStore) *App {
	return &App{Logger: logger, Jobs: store, Runner: runner, Files: files}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, failureResponse{Success: false, Error: message})
}

// statusForError maps the error taxonomy onto HTTP status codes. Anything
// past validation that goes wrong talking to the provider or the local disk
// is a gateway-side failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
