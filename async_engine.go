package ledger

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"runtime"
)

// AsyncEngine is the concurrent-ingest variant: it shares the exact
// per-account and per-log-entry semantics of Engine (the same shard maps,
// the same Process state machine) but drives ingestion through a
// producer/consumer goroutine pipeline instead of a single blocking
// reader loop. Go has no separate cooperative-scheduler runtime to target
// the way the original async implementation targets tokio — goroutines
// parked on a channel send/receive or a shard's sync.RWMutex are the
// direct analogue of that runtime's suspension points, so AsyncEngine
// reuses Engine.Process unchanged and only the ingestion path differs.
type AsyncEngine struct {
	*Engine
}

// NewAsyncEngine constructs an empty async engine. shards, if 0, uses
// shardmap.DefaultShardCount, same as NewEngine.
func NewAsyncEngine(shards int) *AsyncEngine {
	return &AsyncEngine{Engine: NewEngine(shards)}
}

// defaultAsyncWorkers sizes the consumer pool when the caller does not
// specify one explicitly.
func defaultAsyncWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// parsedRecord carries one decoded transaction (or the error from trying
// to decode one) from the producer goroutine to the consumer pool.
type parsedRecord struct {
	tx  Transaction
	err error
}

// ReadAndProcess decodes CSV from r on a dedicated producer goroutine and
// dispatches decoded records to workers consumer goroutines calling
// Process, mirroring the spec's blocking-parser/cooperative-consumer
// split. workers <= 0 selects defaultAsyncWorkers. Cancelling ctx stops
// the producer from sending further records and makes each consumer return
// once its current record is done; records still buffered in the channel
// are dropped, and already-applied mutations are not rolled back.
func (e *AsyncEngine) ReadAndProcess(ctx context.Context, r io.Reader, workers int) error {
	if workers <= 0 {
		workers = defaultAsyncWorkers()
	}

	records := make(chan parsedRecord, workers*4)
	errs := make(chan error, workers*4)
	done := make(chan struct{})

	go e.produce(ctx, r, records)

	finished := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		go e.consume(ctx, records, errs, finished)
	}

	go func() {
		for i := 0; i < workers; i++ {
			<-finished
		}
		close(errs)
		close(done)
	}()

	var agg MultipleErrors
	for err := range errs {
		agg.Add(err)
	}
	<-done
	return agg.ErrOrNil()
}

func (e *AsyncEngine) produce(ctx context.Context, r io.Reader, out chan<- parsedRecord) {
	defer close(out)

	reader := csv.NewReader(bufio.NewReaderSize(r, inputBufferSize))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return
	}
	if err != nil {
		select {
		case out <- parsedRecord{err: fmt.Errorf("ledger: reading header: %w", err)}:
		case <-ctx.Done():
		}
		return
	}
	if !isHeaderRow(header) {
		if !sendRecord(ctx, out, header) {
			return
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			select {
			case out <- parsedRecord{err: fmt.Errorf("ledger: %w: %v", ErrInvalidDecimal, err)}:
			case <-ctx.Done():
				return
			}
			continue
		}
		if !sendRecord(ctx, out, record) {
			return
		}
	}
}

func sendRecord(ctx context.Context, out chan<- parsedRecord, fields []string) bool {
	tx, err := parseTransaction(fields)
	select {
	case out <- parsedRecord{tx: tx, err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *AsyncEngine) consume(ctx context.Context, in <-chan parsedRecord, errs chan<- error, finished chan<- struct{}) {
	defer func() { finished <- struct{}{} }()
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-in:
			if !ok {
				return
			}
			if rec.err != nil {
				errs <- rec.err
				continue
			}
			if err := e.Process(rec.tx); err != nil {
				errs <- fmt.Errorf("%v: %w", rec.tx, err)
			}
		}
	}
}

// ReadAndProcessFromPath opens path and feeds it through ReadAndProcess
// with the given worker count (<=0 selects defaultAsyncWorkers).
func (e *AsyncEngine) ReadAndProcessFromPath(ctx context.Context, path string, workers int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ledger: opening %s: %w", path, err)
	}
	defer f.Close()
	return e.ReadAndProcess(ctx, f, workers)
}
