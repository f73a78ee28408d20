package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cellarflow/ledgerengine"
	"github.com/google/subcommands"
)

type runCmd struct {
	async   bool
	workers int
	dump    bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "ingest a CSV of transactions and print the resulting account balances" }
func (*runCmd) Usage() string {
	return `ledger-engine run [-async] [-workers N] [-dump] <csv-path>

  Reads a CSV stream of deposit/withdrawal/dispute/resolve/chargeback
  records, applies them to a fresh engine, and writes the resulting
  "client,available,held,total,locked" snapshot to stdout. Per-record
  errors are reported on stderr but do not change the exit code.
`
}

func (p *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.async, "async", false, "Use the concurrent ingestion pipeline instead of the single-reader one.")
	f.IntVar(&p.workers, "workers", 0, "Consumer goroutine count for -async (0 selects a default based on GOMAXPROCS).")
	f.BoolVar(&p.dump, "dump", false, "Also write transactions_log.csv to the current working directory.")
}

func (p *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one CSV path argument.")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	if err := runPath(ctx, path, p.async, p.workers, p.dump, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// engineFacade lets run and stress-test drive either engine variant
// uniformly once constructed — the only place that branches on async is
// runPath's own construction step below.
type engineFacade interface {
	ingestFromPath(path string) error
	DumpAccounts(w io.Writer) error
	DumpTransactionLogToFile() error
}

type syncFacade struct{ e *ledger.Engine }

func (s syncFacade) ingestFromPath(path string) error { return s.e.ReadAndProcessFromPath(path) }
func (s syncFacade) DumpAccounts(w io.Writer) error   { return s.e.DumpAccounts(w) }
func (s syncFacade) DumpTransactionLogToFile() error  { return s.e.DumpTransactionLogToFile() }

type asyncFacade struct {
	e       *ledger.AsyncEngine
	ctx     context.Context
	workers int
}

func (a asyncFacade) ingestFromPath(path string) error {
	return a.e.ReadAndProcessFromPath(a.ctx, path, a.workers)
}
func (a asyncFacade) DumpAccounts(w io.Writer) error  { return a.e.DumpAccounts(w) }
func (a asyncFacade) DumpTransactionLogToFile() error { return a.e.DumpTransactionLogToFile() }

// runPath drives one ingestion-and-dump cycle, shared by the run and
// stress-test commands so both exercise the exact same path through the
// engine façade.
func runPath(ctx context.Context, path string, async bool, workers int, dump bool, out *os.File) error {
	var facade engineFacade
	if async {
		facade = asyncFacade{e: ledger.NewAsyncEngine(0), ctx: ctx, workers: workers}
	} else {
		facade = syncFacade{e: ledger.NewEngine(0)}
	}

	if err := facade.ingestFromPath(path); err != nil {
		var agg *ledger.MultipleErrors
		if !errors.As(err, &agg) {
			return err
		}
		fmt.Fprintln(os.Stderr, err)
	}
	if err := facade.DumpAccounts(out); err != nil {
		return err
	}
	if dump {
		return facade.DumpTransactionLogToFile()
	}
	return nil
}
