// Package fetcher reads raw catalogue and translation-series exports
// (CSV, TSV, XLSX, JSON, XML) into string tables keyed by header name, and
// downloads them from HTTP or FTP mirrors.
package fetcher

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StreamCSV reads delimited text and sends rows to a channel. A leading UTF-8
// byte-order mark, common in spreadsheet exports, is dropped.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		br := bufio.NewReader(r)
		if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM))
		}

		reader := csv.NewReader(br)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // exports are often ragged

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSV drains StreamCSV into a Table whose first row is the header.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Table, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	var header []string
	var rows [][]string
	first := true
	for row := range rowCh {
		if first {
			header = row
			first = false
			continue
		}
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}

	return NewTable(header, rows), nil
}
