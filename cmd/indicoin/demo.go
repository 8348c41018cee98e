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

// Demo accounts.
const (
	demoOwner = token.Address("owner")
	demoFund  = token.Address("green-fund")
	demoAlice = token.Address("alice")
	demoBob   = token.Address("bob")
)

const demoStream = "indicoin"

// runDemo executes the scripted workflow against a fresh ledger: mint,
// tighten the cap, transfer with fee, delegated spend, burn. It mirrors the
// original demo runner's order.
func runDemo() (*token.Ledger, error) {
	l := token.New(demoOwner, demoFund)

	steps := []struct {
		name string
		op   func() error
	}{
		{"mint 1000 INDI to alice", func() error {
			return l.Mint(demoOwner, demoAlice, token.Units(1000))
		}},
		{"set outflow cap to 500 INDI", func() error {
			return l.SetOutflowCap(demoOwner, token.Units(500))
		}},
		{"alice transfers 100 INDI to bob", func() error {
			return l.Transfer(demoAlice, demoBob, token.Units(100))
		}},
		{"alice approves bob for 50 INDI", func() error {
			return l.Approve(demoAlice, demoBob, token.Units(50))
		}},
		{"bob spends 20 INDI of the allowance", func() error {
			return l.TransferFrom(demoBob, demoAlice, demoBob, token.Units(20))
		}},
		{"alice burns 200 INDI", func() error {
			return l.Burn(demoAlice, token.Units(200))
		}},
		{"owner reports reserves of 1000 INDI", func() error {
			return l.UpdateReserves(demoOwner, token.Units(1000))
		}},
	}

	for _, s := range steps {
		if err := s.op(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return l, nil
}

func demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	dbPath := fs.String("db", "", "Record the notification stream to this SQLite file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: indicoin demo [options]

Run the scripted workflow and print the resulting ledger state.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, err := runDemo()
	if err != nil {
		return err
	}

	printState(l)

	// Recording drains the journal, so print first.
	if *dbPath != "" {
		store, err := eventsource.NewSQLiteStore(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		rec, err := token.NewRecorder(ctx, l, store, demoStream)
		if err != nil {
			return err
		}
		if err := rec.Flush(ctx); err != nil {
			return err
		}
		fmt.Printf("\nRecorded stream %q to %s\n", demoStream, *dbPath)
	}

	return nil
}

func printState(l *token.Ledger) {
	fmt.Printf("%s (%s), %d decimals\n", token.Name, token.Symbol, token.Decimals)
	fmt.Printf("Total supply:    %s\n", l.TotalSupply().Dec())
	fmt.Printf("Outflow cap:     %s\n", l.OutflowCap().Dec())
	fmt.Printf("Current outflow: %s\n", l.CurrentOutflow().Dec())
	fmt.Printf("Reserves:        %s\n", l.TotalReserves().Dec())
	fmt.Printf("Paused:          %v\n", l.Paused())

	balances := l.Balances()
	addrs := make([]token.Address, 0, len(balances))
	for a := range balances {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	fmt.Println("\nBalances:")
	for _, a := range addrs {
		fmt.Printf("  %-12s %s\n", a, balances[a].Dec())
	}

	fmt.Println("\nNotifications:")
	for _, n := range l.Notifications() {
		amount := ""
		if n.Amount != nil {
			amount = n.Amount.Dec()
		}
		fmt.Printf("  %3d %-18s from=%-10s to=%-10s amount=%s\n",
			n.Seq, n.Kind, n.From, n.To, amount)
	}
}
