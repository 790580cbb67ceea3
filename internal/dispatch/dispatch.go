// Package dispatch sends payment requests to a list of recipients and sorts
// them into outcome buckets.
package dispatch

import (
	"context"

	"github.com/mmynk/grouprequest/internal/models"
	"github.com/mmynk/grouprequest/internal/payment"
)

// DefaultRequestLimit is how many successful requests the payment service
// allows per day.
const DefaultRequestLimit = 50

// Buckets holds the recipients of a run grouped by outcome, each in input order.
type Buckets struct {
	Succeeded []models.Recipient
	Failed    []models.Recipient
	NoAccount []models.Recipient
	Deferred  []models.Recipient

	// Results has one entry per input recipient, in input order.
	Results []models.RunResult
}

// Total returns the number of recipients across all buckets.
func (b *Buckets) Total() int {
	return len(b.Succeeded) + len(b.Failed) + len(b.NoAccount) + len(b.Deferred)
}

// Get returns the bucket for outcome.
func (b *Buckets) Get(outcome models.Outcome) []models.Recipient {
	switch outcome {
	case models.OutcomeSucceeded:
		return b.Succeeded
	case models.OutcomeFailed:
		return b.Failed
	case models.OutcomeNoAccount:
		return b.NoAccount
	case models.OutcomeDeferred:
		return b.Deferred
	}
	return nil
}

func (b *Buckets) add(res models.RunResult) {
	switch res.Outcome {
	case models.OutcomeSucceeded:
		b.Succeeded = append(b.Succeeded, res.Recipient)
	case models.OutcomeFailed:
		b.Failed = append(b.Failed, res.Recipient)
	case models.OutcomeNoAccount:
		b.NoAccount = append(b.NoAccount, res.Recipient)
	case models.OutcomeDeferred:
		b.Deferred = append(b.Deferred, res.Recipient)
	}
	b.Results = append(b.Results, res)
}

// Dispatcher issues requests one at a time and classifies each recipient.
type Dispatcher struct {
	client   payment.Client
	limit    int
	onResult func(models.RunResult)
}

// NewDispatcher creates a Dispatcher that stops sending after limit successful
// requests. A non-positive limit falls back to DefaultRequestLimit.
func NewDispatcher(client payment.Client, limit int) *Dispatcher {
	if limit <= 0 {
		limit = DefaultRequestLimit
	}
	return &Dispatcher{client: client, limit: limit}
}

// OnResult registers fn to be called right after each recipient is classified.
func (d *Dispatcher) OnResult(fn func(models.RunResult)) {
	d.onResult = fn
}

// Dispatch walks recipients in order. Once the success count reaches the
// limit every remaining recipient is deferred without a request. Before that,
// recipients without an account are skipped and never count toward the limit.
func Dispatch(ctx context.Context, client payment.Client, recipients []models.Recipient, params Params) Buckets {
	return NewDispatcher(client, DefaultRequestLimit).Dispatch(ctx, recipients, params)
}

// Dispatch runs the request loop for recipients. See the package-level Dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []models.Recipient, params Params) Buckets {
	var buckets Buckets
	succeeded := 0

	for i, recipient := range recipients {
		res := models.RunResult{Position: i, Recipient: recipient}

		switch {
		case succeeded >= d.limit:
			res.Outcome = models.OutcomeDeferred
		case !recipient.HasAccount():
			res.Outcome = models.OutcomeNoAccount
		default:
			err := d.client.RequestMoney(ctx, recipient.Target(), params.Amount, params.Message)
			if err != nil {
				res.Outcome = models.OutcomeFailed
				res.Error = err.Error()
			} else {
				res.Outcome = models.OutcomeSucceeded
				succeeded++
			}
		}

		buckets.add(res)
		if d.onResult != nil {
			d.onResult(res)
		}
	}

	return buckets
}
