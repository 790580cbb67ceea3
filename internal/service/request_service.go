package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/grouprequest/internal/dispatch"
	"github.com/mmynk/grouprequest/internal/metrics"
	"github.com/mmynk/grouprequest/internal/middleware"
	"github.com/mmynk/grouprequest/internal/models"
	"github.com/mmynk/grouprequest/internal/payment"
	"github.com/mmynk/grouprequest/internal/prompt"
	"github.com/mmynk/grouprequest/internal/storage"
)

// ErrDeclined is returned when the operator does not confirm the run.
var ErrDeclined = errors.New("run declined by operator")

// Request holds the operator's input for one run.
type Request struct {
	Amount         float64
	Message        string
	File           string
	WriteRemainder bool
}

// Result describes a completed run.
type Result struct {
	RunID         string
	Params        dispatch.Params
	Buckets       dispatch.Buckets
	RemainderPath string
}

// Options configures a RequestService. Zero values are usable.
type Options struct {
	// Limit is the number of successful requests per run (default 50).
	Limit int

	// OutDir is where remainder tables are written (default ".").
	OutDir string

	// Store records each run when set.
	Store storage.Store

	// OpenStore, when set and Store is nil, opens the ledger once the operator
	// has confirmed. The service closes a store it opened.
	OpenStore func() (storage.Store, error)

	// Metrics collects counters when set.
	Metrics *metrics.Metrics

	// MetricsFile receives the metrics after the run when set with Metrics.
	MetricsFile string

	// In and Out carry the confirmation prompt and the report.
	In  io.Reader
	Out io.Writer

	// Now returns the current time (default time.Now).
	Now func() time.Time
}

// RequestService runs one batch of payment requests from start to finish:
// validate, check the session, load recipients, confirm, dispatch, report,
// persist the remainder, and record the run.
type RequestService struct {
	client payment.Client
	opts   Options
}

// NewRequestService creates a RequestService using client for every call.
func NewRequestService(client payment.Client, opts Options) *RequestService {
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if opts.In == nil {
		opts.In = strings.NewReader("")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RequestService{client: client, opts: opts}
}

// Run executes req. It returns ErrDeclined, with nothing sent or written, when
// the operator does not confirm. Errors after dispatch (remainder file, ledger,
// metrics) are reported but do not undo requests already sent; they are
// returned together with the result.
func (s *RequestService) Run(ctx context.Context, req Request) (*Result, error) {
	params, err := dispatch.ValidateParameters(req.Amount, req.Message)
	if err != nil {
		return nil, err
	}
	params.Source = req.File
	params.WriteRemainder = req.WriteRemainder

	if err := s.client.EnsureSession(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	recipients, err := dispatch.LoadRecipients(req.File)
	if err != nil {
		return nil, err
	}

	confirmed, err := prompt.Confirm(s.opts.In, s.opts.Out, confirmationText(params))
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrDeclined
	}

	store := s.opts.Store
	if store == nil && s.opts.OpenStore != nil {
		store, err = s.opts.OpenStore()
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		defer store.Close()
	}

	run := &models.Run{
		ID:        uuid.New().String(),
		Amount:    params.Amount,
		Message:   params.Message,
		Source:    params.Source,
		StartedAt: s.opts.Now().Unix(),
	}
	ctx = middleware.WithRunID(ctx, run.ID)
	slog.Info("Starting requests", "run_id", run.ID, "recipients", len(recipients), "amount", params.Amount.StringFixed(2))
	if s.opts.Metrics != nil {
		s.opts.Metrics.RunStarted()
	}

	printBanner(s.opts.Out, "STARTING REQUESTS...")
	dispatcher := dispatch.NewDispatcher(s.client, s.opts.Limit)
	dispatcher.OnResult(func(res models.RunResult) {
		printProgress(s.opts.Out, res, params)
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObserveOutcome(res.Outcome)
		}
	})
	buckets := dispatcher.Dispatch(ctx, recipients, params)

	run.FinishedAt = s.opts.Now().Unix()
	run.Results = buckets.Results
	result := &Result{RunID: run.ID, Params: params, Buckets: buckets}

	printReport(s.opts.Out, &buckets)

	var errs []error
	if params.WriteRemainder {
		if len(buckets.Deferred) > 0 {
			path, err := dispatch.PersistDeferred(s.opts.OutDir, s.opts.Now(), buckets.Deferred)
			if err != nil {
				slog.Error("Failed to write remainders", "run_id", run.ID, "error", err)
				fmt.Fprintf(s.opts.Out, "\nunable to create csv file: %v\n", err)
				errs = append(errs, err)
			} else {
				result.RemainderPath = path
				fmt.Fprintf(s.opts.Out, "\ncsv file created successfully: %s\n", path)
			}
		} else {
			fmt.Fprintln(s.opts.Out, "no file created")
		}
	}
	fmt.Fprintln(s.opts.Out)

	if store != nil {
		if err := store.CreateRun(ctx, run); err != nil {
			slog.Error("Failed to record run", "run_id", run.ID, "error", err)
			errs = append(errs, fmt.Errorf("failed to record run: %w", err))
		}
	}

	if s.opts.Metrics != nil && s.opts.MetricsFile != "" {
		if err := s.opts.Metrics.WriteTextfile(s.opts.MetricsFile); err != nil {
			slog.Error("Failed to write metrics", "run_id", run.ID, "error", err)
			errs = append(errs, err)
		}
	}

	slog.Info("Run finished",
		"run_id", run.ID,
		"succeeded", len(buckets.Succeeded),
		"failed", len(buckets.Failed),
		"no_account", len(buckets.NoAccount),
		"deferred", len(buckets.Deferred),
	)

	return result, errors.Join(errs...)
}

func confirmationText(params dispatch.Params) string {
	return fmt.Sprintf(`
    you have entered the following:
    amount:    $%s
    message:   %s
    file:      %s
    write_to:  %t

    Is this correct? (y or n) `, params.Amount.StringFixed(2), params.Message, params.Source, params.WriteRemainder)
}
