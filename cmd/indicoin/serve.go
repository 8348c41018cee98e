package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/indicoin-xyz/go-indicoin/advisor"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8000", "Listen address")
	historyPath := fs.String("history", "", "JSON price history file (default: synthetic data)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: indicoin serve [options]

Run the buy-limit advisor HTTP service.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Endpoints:
  POST /predict   {"balance": 50000, "first_time": false,
                   "btc_holdings": 0.1, "risk_profile": "moderate"}
  GET  /healthz
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	opts := []advisor.Option{advisor.WithLogger(logger)}
	if *historyPath != "" {
		history, err := advisor.LoadHistory(*historyPath)
		if err != nil {
			return err
		}
		opts = append(opts, advisor.WithHistory(history))
	}

	srv, err := advisor.NewServer(opts...)
	if err != nil {
		return err
	}

	logger.Info().Str("addr", *addr).Msg("advisor listening")
	return http.ListenAndServe(*addr, srv)
}
