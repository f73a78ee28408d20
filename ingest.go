package ledger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// inputBufferSize is the default read-buffer size for the sync ingestion
// pipeline, matching the spec's stated default of 16 KiB.
const inputBufferSize = 16 * 1024

// ReadAndProcess decodes CSV records of the form "type,client,tx,amount"
// from r and dispatches each to Process in order. Parse failures and
// semantic failures are both collected rather than aborting the stream;
// every syntactically well-formed record is still applied. The returned
// error, if non-nil, is a *MultipleErrors aggregate report — callers that
// only care about pass/fail can still use errors.As to recover the list —
// except when the first row cannot be read at all, which returns that read
// error on its own.
func (e *Engine) ReadAndProcess(r io.Reader) error {
	reader := csv.NewReader(bufio.NewReaderSize(r, inputBufferSize))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var agg MultipleErrors

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ledger: reading header: %w", err)
	}
	if !isHeaderRow(header) {
		// Not a header; treat the first row as data, matching tools that
		// feed headerless input.
		if err := e.processRow(header, &agg); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			agg.Add(fmt.Errorf("ledger: %w: %v", ErrInvalidDecimal, err))
			continue
		}
		if err := e.processRow(record, &agg); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
	}

	return agg.ErrOrNil()
}

func (e *Engine) processRow(record []string, agg *MultipleErrors) error {
	tx, err := parseTransaction(record)
	if err != nil {
		agg.Add(err)
		return nil
	}
	if err := e.Process(tx); err != nil {
		agg.Add(fmt.Errorf("%v: %w", tx, err))
	}
	return nil
}

func isHeaderRow(fields []string) bool {
	return len(fields) >= 1 && (fields[0] == "type" || fields[0] == "Type")
}

// ReadAndProcessFromPath opens path and feeds it through ReadAndProcess.
func (e *Engine) ReadAndProcessFromPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ledger: opening %s: %w", path, err)
	}
	defer f.Close()
	return e.ReadAndProcess(f)
}
