package service

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mmynk/grouprequest/internal/dispatch"
	"github.com/mmynk/grouprequest/internal/models"
)

var sectionTitles = map[models.Outcome]string{
	models.OutcomeSucceeded: "Successful Requests",
	models.OutcomeFailed:    "Failed Requests",
	models.OutcomeNoAccount: "Users without an account",
	models.OutcomeDeferred:  "Remaining Users",
}

var sectionColors = map[models.Outcome]*color.Color{
	models.OutcomeSucceeded: color.New(color.FgGreen),
	models.OutcomeFailed:    color.New(color.FgRed),
	models.OutcomeNoAccount: color.New(color.FgYellow),
	models.OutcomeDeferred:  color.New(color.FgBlue),
}

func printBanner(out io.Writer, title string) {
	fmt.Fprintln(out, "\n---------------------")
	fmt.Fprintf(out, " %s\n", title)
	fmt.Fprintln(out, "---------------------")
	fmt.Fprintln(out)
}

// printProgress writes one line per recipient as it is processed. Deferred
// recipients are listed in the report only.
func printProgress(out io.Writer, res models.RunResult, params dispatch.Params) {
	switch res.Outcome {
	case models.OutcomeNoAccount:
		fmt.Fprintf(out, "Skipping %s...\n", res.Recipient.FullName())
	case models.OutcomeSucceeded:
		fmt.Fprintf(out, "Requested $%s from %s (%s)\n",
			params.Amount.StringFixed(2), res.Recipient.FullName(), res.Recipient.Target())
	case models.OutcomeFailed:
		fmt.Fprintf(out, "Request to %s (%s) failed: %s\n",
			res.Recipient.FullName(), res.Recipient.Target(), res.Error)
	}
}

func printReport(out io.Writer, buckets *dispatch.Buckets) {
	printBanner(out, "      RESULTS:")
	for i, outcome := range models.Outcomes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		recipients := buckets.Get(outcome)
		sectionColors[outcome].Fprintf(out, "%s: %d", sectionTitles[outcome], len(recipients))
		fmt.Fprintln(out)
		for _, r := range recipients {
			fmt.Fprintln(out, r.FullName())
		}
	}
}
