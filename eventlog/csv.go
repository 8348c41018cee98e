package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"seq", "type", "from", "to", "amount", "paused", "timestamp"}

// WriteCSV writes records to w with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, r := range records {
		row := []string{
			strconv.FormatUint(r.Seq, 10),
			r.Type,
			r.From,
			r.To,
			r.Amount,
			strconv.FormatBool(r.Paused),
			r.Timestamp.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV feed written by WriteCSV.
func ReadCSV(r io.Reader, config Config) ([]Record, error) {
	if len(config.TimestampFormats) == 0 {
		config.TimestampFormats = DefaultConfig().TimestampFormats
	}

	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// First row is the header.
	var out []Record
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}

		seq, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid seq: %w", i+2, err)
		}
		paused, err := strconv.ParseBool(row[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid paused flag: %w", i+2, err)
		}
		ts, err := parseTimestamp(row[6], config.TimestampFormats)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		out = append(out, Record{
			Seq:       seq,
			Type:      row[1],
			From:      row[2],
			To:        row[3],
			Amount:    row[4],
			Paused:    paused,
			Timestamp: ts,
		})
	}
	return out, nil
}
