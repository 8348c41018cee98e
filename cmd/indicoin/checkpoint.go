package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func checkpoint(args []string) error {
	fs := flag.NewFlagSet("checkpoint", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: indicoin checkpoint

Run the scripted workflow and print the ledger's balance commitment.
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, err := runDemo()
	if err != nil {
		return err
	}

	fmt.Printf("supply:     %s\n", l.TotalSupply().Dec())
	fmt.Printf("checkpoint: %s\n", hex.EncodeToString(l.Checkpoint()))
	return nil
}
