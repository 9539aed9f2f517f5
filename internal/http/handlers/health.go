package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Message:   "Presentation API is running",
		Timestamp: time.Now().UTC(),
	})
}

// Root describes the service and its routes, mostly as a landing page for
// anyone poking the API by hand.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"name":    "Presentation Generation API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"generate_sync":  "/api/generate-presentation",
			"generate_async": "/api/generate-presentation-async",
			"check_status":   "/api/presentation-status/{job_id}",
			"download":       "/api/downloads/{file_name}",
			"health":         "/api/health",
		},
	})
}
