package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/indicoin-xyz/go-indicoin/eventlog"
)

func events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	format := fs.String("format", "jsonl", "Output format: jsonl or csv")
	outPath := fs.String("out", "", "Output file (default stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: indicoin events [options]

Run the scripted workflow and export its notification feed.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Feed as JSON lines on stdout
  indicoin events

  # CSV to a file
  indicoin events --format csv --out feed.csv
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, err := runDemo()
	if err != nil {
		return err
	}
	records := eventlog.FromJournal(l.Notifications())

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "jsonl":
		return eventlog.WriteJSONL(w, records)
	case "csv":
		return eventlog.WriteCSV(w, records)
	default:
		return fmt.Errorf("unknown format %q (want jsonl or csv)", *format)
	}
}
