package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/gamma"
)

// Provider is the slice of the gamma client the runner depends on.
type Provider interface {
	CreateGeneration(ctx context.Context, req gamma.CreateRequest) (string, error)
	PollGeneration(ctx context.Context, generationID string) (*gamma.Generation, error)
}

// Downloader persists a completed generation's exported file locally.
type Downloader interface {
	FetchAndStore(ctx context.Context, fileURL, fileName string) (string, error)
}

// Result is the outcome of a finished generation pipeline. ExportURL is the
// provider's own link to the exported file; DownloadURL is the local one.
type Result struct {
	GenerationID string
	FileName     string
	DownloadURL  string
	ExportURL    string
}

// Options configures a Runner.
type Options struct {
	PollInterval    time.Duration
	Timeout         time.Duration
	MaxPollFailures int
	PollLimiter     *rate.Limiter
	Logger          *infra.Logger
}

// Runner drives the create → poll → download pipeline against the provider.
// The async path gets one goroutine per accepted job; the sync path runs the
// same pipeline inline on the request goroutine and never touches the store.
type Runner struct {
	store           *Store
	provider        Provider
	downloads       Downloader
	interval        time.Duration
	timeout         time.Duration
	maxPollFailures int
	limiter         *rate.Limiter
	logger          *infra.Logger
}

// NewRunner constructs a Runner with sane defaults for unset options.
func NewRunner(store *Store, provider Provider, downloads Downloader, opts Options) *Runner {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 75 * time.Second
	}
	maxFailures := opts.MaxPollFailures
	if maxFailures <= 0 {
		maxFailures = 3
	}
	limiter := opts.PollLimiter
	if limiter == nil {
		// Shared across jobs so a burst of concurrent generations cannot
		// hammer the provider's status endpoint.
		limiter = rate.NewLimiter(rate.Limit(10), 10)
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Runner{
		store:           store,
		provider:        provider,
		downloads:       downloads,
		interval:        interval,
		timeout:         timeout,
		maxPollFailures: maxFailures,
		limiter:         limiter,
		logger:          logger,
	}
}

// Timeout returns the generation ceiling applied to each pipeline run.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Launch accepts an async generation: it registers a fresh job, spawns the
// background pipeline for it, and returns immediately. Exactly one goroutine
// owns each job id.
func (r *Runner) Launch(req domain.GenerationRequest) *domain.Job {
	job := r.store.Create()
	go r.run(job.ID, req)
	return job
}

func (r *Runner) run(jobID string, req domain.GenerationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	res, err := r.Generate(ctx, req, func(progress int) {
		_ = r.store.SetProgress(jobID, progress)
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("job_id", jobID).Msg("generation failed")
		_ = r.store.Fail(jobID, err.Error())
		return
	}
	_ = r.store.Complete(jobID, res.DownloadURL, res.FileName, res.ExportURL)
	r.logger.Info().
		Str("job_id", jobID).
		Str("generation_id", res.GenerationID).
		Str("file", res.FileName).
		Msg("generation completed")
}

// Generate runs one full pipeline: create the remote generation, poll until
// a terminal provider state, then download the exported file. onProgress, if
// set, receives monotonically non-decreasing values below 100. The context
// deadline is the generation ceiling; exceeding it surfaces
// domain.ErrGenerationTimeout.
func (r *Runner) Generate(ctx context.Context, req domain.GenerationRequest, onProgress func(int)) (*Result, error) {
	report := onProgress
	if report == nil {
		report = func(int) {}
	}

	generationID, err := r.provider.CreateGeneration(ctx, gamma.CreateRequest{
		InputText: req.InputText,
		ExportAs:  req.ExportAs,
		NumCards:  req.NumCards,
	})
	if err != nil {
		if ctxErr := timeoutErr(ctx, r.timeout); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	progress := 10
	report(progress)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil, timeoutErr(ctx, r.timeout)
		case <-ticker.C:
		}
		if err := r.limiter.Wait(ctx); err != nil {
			// Wait also fails when the remaining deadline cannot cover the
			// reservation, which is a timeout in all but name.
			if ctxErr := timeoutErr(ctx, r.timeout); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w after %s", domain.ErrGenerationTimeout, r.timeout)
		}

		gen, err := r.provider.PollGeneration(ctx, generationID)
		if err != nil {
			if ctxErr := timeoutErr(ctx, r.timeout); ctxErr != nil {
				return nil, ctxErr
			}
			failures++
			if failures > r.maxPollFailures {
				return nil, fmt.Errorf("%w: polling failed %d times in a row: %v", domain.ErrProviderFailure, failures, err)
			}
			r.logger.Debug().Err(err).Str("generation_id", generationID).Int("failures", failures).Msg("poll attempt failed")
			continue
		}
		failures = 0

		switch gen.Status {
		case gamma.StatusPending:
			if progress < 90 {
				progress += 10
			}
			report(progress)
		case gamma.StatusFailed:
			return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, gen.ErrorMessage)
		case gamma.StatusCompleted:
			fileName := fmt.Sprintf("%s.%s", generationID, req.ExportAs)
			key, err := r.downloads.FetchAndStore(ctx, gen.ExportURL, fileName)
			if err != nil {
				return nil, err
			}
			return &Result{
				GenerationID: generationID,
				FileName:     key,
				DownloadURL:  "/api/downloads/" + key,
				ExportURL:    gen.ExportURL,
			}, nil
		}
	}
}

// timeoutErr maps an exceeded deadline to the timeout sentinel and returns
// nil while the context is still live.
func timeoutErr(ctx context.Context, ceiling time.Duration) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", domain.ErrGenerationTimeout, ceiling)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return nil
	}
}
