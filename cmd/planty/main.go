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
	case "generate":
		if err := generate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "expand":
		if err := expand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := history(args); err != nil {
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
	case "version", "-v", "--version":
		fmt.Println("planty version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`planty - L-system plant generation tool

Usage:
  planty <command> [options]

Commands:
  generate   Build a plant and print its stats
  expand     Print the rewritten symbol string
  plot       Generate an SVG rendering of a plant
  validate   Check a plant definition for grammar errors
  history    Show build history from a database or log file
  serve      Run the HTTP/WebSocket preview server
  help       Show this help message
  version    Show version information

Examples:
  # Build the default plant
  planty generate

  # Build from a definition file with extra iterations
  planty generate bush.json --iterations 8

  # Show one generation of rewriting
  planty expand bush.json --iterations 1

  # Render to SVG
  planty plot bush.json --output bush.svg

  # Check a definition without building
  planty validate bush.json

  # Serve previews with SQLite build logging
  planty serve --addr :8080 --db builds.db`)
}
