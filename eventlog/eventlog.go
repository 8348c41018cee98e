// Package eventlog encodes the ledger's notification feed for external
// indexers. Records are flat rows with amounts as decimal strings, written
// and read as JSONL or CSV.
package eventlog

import (
	"fmt"
	"time"

	"github.com/indicoin-xyz/go-indicoin/token"
)

// Record is one notification in feed form.
type Record struct {
	Seq       uint64    `json:"seq"`
	Type      string    `json:"type"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Amount    string    `json:"amount,omitempty"` // decimal base units
	Paused    bool      `json:"paused,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FromJournal converts drained ledger notifications to feed records.
func FromJournal(notes []token.Notification) []Record {
	out := make([]Record, 0, len(notes))
	for _, n := range notes {
		r := Record{
			Seq:       n.Seq,
			Type:      string(n.Kind),
			From:      string(n.From),
			To:        string(n.To),
			Paused:    n.Paused,
			Timestamp: n.Time,
		}
		if n.Amount != nil {
			r.Amount = n.Amount.Dec()
		}
		out = append(out, r)
	}
	return out
}

// Config controls feed parsing.
type Config struct {
	// TimestampFormats are tried in order when parsing CSV timestamps.
	TimestampFormats []string
}

// DefaultConfig returns a configuration accepting common timestamp layouts.
func DefaultConfig() Config {
	return Config{
		TimestampFormats: []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
		},
	}
}

func parseTimestamp(s string, formats []string) (time.Time, error) {
	for _, f := range formats {
		if ts, err := time.Parse(f, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
