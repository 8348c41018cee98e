package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/indicoin-xyz/go-indicoin/eventsource"
	"github.com/indicoin-xyz/go-indicoin/token"
)

func replay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite file holding the recorded stream")
	stream := fs.String("stream", demoStream, "Stream to replay")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: indicoin replay --db <file> [options]

Rebuild ledger state from a recorded notification stream.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("--db is required")
	}

	store, err := eventsource.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	view, err := token.Replay(context.Background(), store, *stream)
	if err != nil {
		return err
	}

	fmt.Printf("Stream %q replayed\n", *stream)
	fmt.Printf("Total supply: %s\n", view.TotalSupply.Dec())
	fmt.Printf("Outflow cap:  %s\n", view.OutflowCap.Dec())
	fmt.Printf("Reserves:     %s\n", view.TotalReserves.Dec())
	fmt.Printf("Paused:       %v\n", view.Paused)

	addrs := make([]token.Address, 0, len(view.Balances))
	for a := range view.Balances {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	fmt.Println("\nBalances:")
	for _, a := range addrs {
		fmt.Printf("  %-12s %s\n", a, view.Balances[a].Dec())
	}
	return nil
}
