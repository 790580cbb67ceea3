package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/grouprequest/internal/auth"
	"github.com/mmynk/grouprequest/internal/config"
	"github.com/mmynk/grouprequest/internal/dispatch"
	"github.com/mmynk/grouprequest/internal/metrics"
	"github.com/mmynk/grouprequest/internal/middleware"
	"github.com/mmynk/grouprequest/internal/payment"
	"github.com/mmynk/grouprequest/internal/prompt"
	"github.com/mmynk/grouprequest/internal/service"
	"github.com/mmynk/grouprequest/internal/storage"
	"github.com/mmynk/grouprequest/internal/storage/sqlite"
	"github.com/mmynk/grouprequest/pkg/logging"
)

var version = "dev"

// options holds everything parsed from the command line.
type options struct {
	amount  float64
	message string
	file    string
	write   bool

	configPath  string
	ledgerPath  string
	metricsFile string
	outDir      string

	in  io.Reader
	out io.Writer
}

func main() {
	logging.Setup()

	cmd := newRootCmd(run)
	cmd.SetArgs(normalizeArgs(cmd, os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(runFn func(ctx context.Context, opts options) error) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "grouprequest <amount> <message>",
		Short: "Send payment requests to users from a csv file",
		Long: `Send payment requests to users from a csv file.

The file needs a header row followed by FIRST_NAME,LAST_NAME,VENMO rows.
Rows whose handle is "no-account" are skipped. After 50 successful requests
the remaining users are not contacted; pass -write to save them to a new file.`,
		Example: `  grouprequest 5 'party pitch'
  grouprequest 7 't-shirts for event' -file 'smallGroup.csv'
  grouprequest 5 'party' -write`,
		Version:      version,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: must be a number", args[0])
			}
			opts.amount = amount
			opts.message = args[1]
			opts.in = cmd.InOrStdin()
			opts.out = cmd.OutOrStdout()
			return runFn(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "csv/master.csv", ".csv file of usernames")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "create a csv file of remaining users")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default $HOME/.grouprequest/config.yaml)")
	cmd.Flags().StringVar(&opts.ledgerPath, "ledger", "", "SQLite file recording every run (overrides config)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "directory for the remaining-users file (overrides config)")

	return cmd
}

func run(ctx context.Context, opts options) error {
	// Nothing is prompted for or written until the input is known to be valid.
	if _, err := dispatch.ValidateParameters(opts.amount, opts.message); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.ledgerPath != "" {
		cfg.LedgerPath = opts.ledgerPath
	}
	if opts.metricsFile != "" {
		cfg.MetricsFile = opts.metricsFile
	}
	if opts.outDir != "" {
		cfg.OutDir = opts.outDir
	}

	sessions := auth.NewSessionManager(auth.NewTokenStore(cfg.TokenFile), prompt.NewTerminal(os.Stdin, os.Stderr))
	token, err := sessions.AccessToken(cfg.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	client, err := payment.NewVenmoClient(cfg.APIBaseURL, token, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	m := metrics.New()
	svcOpts := service.Options{
		Limit:       cfg.RequestLimit,
		OutDir:      cfg.OutDir,
		Metrics:     m,
		MetricsFile: cfg.MetricsFile,
		In:          opts.in,
		Out:         opts.out,
	}

	if cfg.LedgerPath != "" {
		svcOpts.OpenStore = func() (storage.Store, error) {
			return sqlite.New(cfg.LedgerPath)
		}
	}

	svc := service.NewRequestService(middleware.Logging(client, m), svcOpts)
	_, err = svc.Run(ctx, service.Request{
		Amount:         opts.amount,
		Message:        opts.message,
		File:           opts.file,
		WriteRemainder: opts.write,
	})
	if errors.Is(err, service.ErrDeclined) {
		return nil
	}
	return err
}
