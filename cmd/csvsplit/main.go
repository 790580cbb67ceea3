package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/grouprequest/internal/splitter"
	"github.com/mmynk/grouprequest/pkg/logging"
)

var version = "dev"

func main() {
	logging.Setup()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "csvsplit <infile> <outfile> <length>",
		Short: "Split .csv files into multiple smaller files",
		Long: `Split .csv files into multiple smaller files.

Each new file holds at most <length> data rows (not counting the header) and
starts with the header of <infile>. Files are named <outfile>_1.csv,
<outfile>_2.csv, and so on.`,
		Example:      "  csvsplit master.csv new_file 50",
		Version:      version,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := strconv.Atoi(args[2])
			if err != nil || length < 1 {
				return fmt.Errorf("invalid length %q: %w", args[2], splitter.ErrInvalidGroupSize)
			}

			summary, err := splitter.Split(args[0], args[1], length)
			for _, name := range summary.Written {
				fmt.Fprintf(out, "%s written successfully\n", name)
			}
			for _, name := range summary.Failed {
				fmt.Fprintf(out, "unable to successfully write %s\n", name)
			}
			return err
		},
	}
}
