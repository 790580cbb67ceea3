package models

import "github.com/shopspring/decimal"

// Outcome is the bucket a recipient is assigned to during a dispatch run.
type Outcome string

const (
	// OutcomeSucceeded means the payment service accepted the request.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed means the payment service rejected the request.
	OutcomeFailed Outcome = "failed"

	// OutcomeNoAccount means the recipient was skipped because it has no handle.
	OutcomeNoAccount Outcome = "no_account"

	// OutcomeDeferred means the request limit was reached before this recipient.
	OutcomeDeferred Outcome = "deferred"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{OutcomeSucceeded, OutcomeFailed, OutcomeNoAccount, OutcomeDeferred}

// Run represents one dispatch run as recorded in the ledger.
type Run struct {
	// ID is the unique identifier for the run (UUID format).
	ID string

	// Amount is the requested amount, already rounded to cents.
	Amount decimal.Decimal

	// Message is the note attached to every request.
	Message string

	// Source is the path of the recipients table.
	Source string

	// StartedAt is the Unix timestamp when dispatching began.
	StartedAt int64

	// FinishedAt is the Unix timestamp when dispatching ended.
	FinishedAt int64

	// Results holds one entry per input recipient, in input order.
	Results []RunResult
}

// RunResult is the outcome for a single recipient within a run.
type RunResult struct {
	// Position is the 0-based index of the recipient in the input table.
	Position int

	Recipient Recipient
	Outcome   Outcome

	// Error is the payment service's message for failed requests.
	Error string
}

// Count returns how many results have the given outcome.
func (r *Run) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
