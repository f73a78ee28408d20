package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/cellarflow/ledgerengine/internal/stressgen"
	"github.com/google/subcommands"
)

type stressTestCmd struct {
	async bool
	dump  bool
}

func (*stressTestCmd) Name() string { return "stress-test" }
func (*stressTestCmd) Synopsis() string {
	return "generate N synthetic transactions and feed them through the engine"
}
func (*stressTestCmd) Usage() string {
	return `ledger-engine stress-test [-async] [-dump] <N>

  Generates N random deposit/withdrawal/dispute/resolve/chargeback records,
  writes them to a temporary file, and runs them through the same path as
  "run". This is a convenience for exercising the engine under load; its
  output is random and it is not part of the tested core.
`
}

func (p *stressTestCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.async, "async", false, "Use the concurrent ingestion pipeline instead of the single-reader one.")
	f.BoolVar(&p.dump, "dump", false, "Also write transactions_log.csv to the current working directory.")
}

func (p *stressTestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one transaction count argument.")
		return subcommands.ExitUsageError
	}
	n, err := strconv.Atoi(f.Arg(0))
	if err != nil || n < 0 {
		fmt.Fprintf(os.Stderr, "Error: %q is not a valid non-negative transaction count.\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	tmp, err := os.CreateTemp("", "ledger-engine-stress-*.csv")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer os.Remove(tmp.Name())

	if err := stressgen.Write(tmp, n); err != nil {
		tmp.Close()
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := tmp.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := runPath(ctx, tmp.Name(), p.async, 0, p.dump, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
