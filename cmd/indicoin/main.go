// Command indicoin exercises the IndiCoin ledger and runs the buy-limit
// advisor service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		if err := demo(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		if err := events(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "checkpoint":
		if err := checkpoint(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "replay":
		if err := replay(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`indicoin - IndiCoin ledger and buy-limit advisor

Usage:
  indicoin <command> [options]

Commands:
  demo        Run the scripted mint/transfer/burn workflow
  events      Export the demo notification feed as JSONL or CSV
  checkpoint  Print the demo ledger's balance commitment
  replay      Rebuild ledger state from a recorded event stream
  serve       Run the buy-limit advisor HTTP service
  help        Show this help

Run 'indicoin <command> -h' for command options.`)
}
