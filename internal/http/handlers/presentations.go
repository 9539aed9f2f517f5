package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type generationData struct {
	GenerationID string    `json:"generation_id"`
	FileName     string    `json:"file_name"`
	DownloadURL  string    `json:"download_url"`
	GammaURL     string    `json:"gamma_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type generateResponse struct {
	Success bool           `json:"success"`
	Data    generationData `json:"data"`
}

// GeneratePresentation runs the whole pipeline on the request goroutine and
// answers only once the file is stored locally.
func (a *App) GeneratePresentation(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerationRequest(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.Runner.Timeout())
	defer cancel()

	res, err := a.Runner.Generate(ctx, req, nil)
	if err != nil {
		a.error(w, statusForError(err), err.Error())
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		Success: true,
		Data: generationData{
			GenerationID: res.GenerationID,
			FileName:     res.FileName,
			DownloadURL:  res.DownloadURL,
			GammaURL:     res.ExportURL,
			Status:       string(domain.JobStatusCompleted),
			CreatedAt:    time.Now().UTC(),
		},
	})
}

type asyncResponse struct {
	Success   bool   `json:"success"`
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}

// GeneratePresentationAsync accepts the job and returns before any provider
// call is made; callers poll the status endpoint.
func (a *App) GeneratePresentationAsync(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerationRequest(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}

	job := a.Runner.Launch(req)
	a.json(w, http.StatusAccepted, asyncResponse{
		Success:   true,
		JobID:     job.ID,
		Status:    string(job.Status),
		StatusURL: "/api/presentation-status/" + job.ID,
	})
}

type jobStatusResponse struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	DownloadURL *string   `json:"download_url"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PresentationStatus reports the current snapshot of an async job.
func (a *App) PresentationStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Jobs.Get(jobID)
	if err != nil {
		a.error(w, http.StatusNotFound, "job not found")
		return
	}

	var downloadURL *string
	if job.DownloadURL != "" {
		downloadURL = &job.DownloadURL
	}
	a.json(w, http.StatusOK, jobStatusResponse{
		JobID:       job.ID,
		Status:      string(job.Status),
		Progress:    job.Progress,
		DownloadURL: downloadURL,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	})
}
