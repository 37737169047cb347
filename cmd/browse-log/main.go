// Command browse-log views and analyzes browse gateway protocol log files.
//
// Log files are created by running browse-gw with the -event-log flag.
//
// Usage:
//
//	browse-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	browse-log view gateway.cbor
//
//	# View only outgoing stanzas
//	browse-log view -direction out -category stanza gateway.cbor
//
//	# Show statistics
//	browse-log stats gateway.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/browse-protocol/browse-go/pkg/log"
)

const usage = `browse-log - Browse Gateway Log Analyzer

Usage:
  browse-log <command> [flags] <file.cbor>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "browse-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `browse-log view - View log file in human-readable format

Usage:
  browse-log view [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (stream, service)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (stanza, state, error)")
	connID := fs.String("conn-id", "", "Filter by connection ID")
	domain := fs.String("domain", "", "Filter by serving domain")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := buildFilter(*layer, *direction, *category, *connID, *domain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	events, err := reader.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, event := range events {
		printEvent(event)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `browse-log stats - Show statistics about the log file

Usage:
  browse-log stats <file.cbor>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	reader, err := log.NewReader(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	events, err := reader.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		fmt.Println("No events.")
		return
	}

	byCategory := make(map[log.Category]int)
	byDirection := make(map[log.Direction]int)
	byNamespace := make(map[string]int)
	connections := make(map[string]bool)
	for _, event := range events {
		byCategory[event.Category]++
		connections[event.ConnectionID] = true
		if event.Category == log.CategoryStanza {
			byDirection[event.Direction]++
			if event.Stanza != nil && event.Stanza.Namespace != "" {
				byNamespace[event.Stanza.Namespace]++
			}
		}
	}

	first := events[0].Timestamp
	last := events[len(events)-1].Timestamp

	fmt.Printf("Events:      %d\n", len(events))
	fmt.Printf("Connections: %d\n", len(connections))
	fmt.Printf("Span:        %s .. %s (%s)\n",
		first.Format("15:04:05.000"), last.Format("15:04:05.000"), last.Sub(first))
	fmt.Printf("Stanzas:     %d in / %d out\n",
		byDirection[log.DirectionIn], byDirection[log.DirectionOut])
	fmt.Printf("States:      %d\n", byCategory[log.CategoryState])
	fmt.Printf("Errors:      %d\n", byCategory[log.CategoryError])
	if len(byNamespace) > 0 {
		fmt.Println("Namespaces:")
		for ns, n := range byNamespace {
			fmt.Printf("  %-45s %d\n", ns, n)
		}
	}
}

func buildFilter(layer, direction, category, connID, domain string) (log.Filter, error) {
	filter := log.Filter{ConnectionID: connID, Domain: domain}

	switch layer {
	case "":
	case "stream":
		l := log.LayerStream
		filter.Layer = &l
	case "service":
		l := log.LayerService
		filter.Layer = &l
	default:
		return log.Filter{}, fmt.Errorf("unknown layer %q (stream, service)", layer)
	}

	switch direction {
	case "":
	case "in":
		d := log.DirectionIn
		filter.Direction = &d
	case "out":
		d := log.DirectionOut
		filter.Direction = &d
	default:
		return log.Filter{}, fmt.Errorf("unknown direction %q (in, out)", direction)
	}

	switch category {
	case "":
	case "stanza":
		c := log.CategoryStanza
		filter.Category = &c
	case "state":
		c := log.CategoryState
		filter.Category = &c
	case "error":
		c := log.CategoryError
		filter.Category = &c
	default:
		return log.Filter{}, fmt.Errorf("unknown category %q (stanza, state, error)", category)
	}

	return filter, nil
}

func printEvent(event log.Event) {
	prefix := fmt.Sprintf("%s %-3s %-7s %-6s",
		event.Timestamp.Format("15:04:05.000"),
		event.Direction, event.Layer, event.Category)

	switch {
	case event.Stanza != nil:
		s := event.Stanza
		fmt.Printf("%s id=%s type=%s from=%s to=%s ns=%s\n",
			prefix, s.ID, s.Type, s.From, s.To, s.Namespace)
	case event.StateChange != nil:
		sc := event.StateChange
		if sc.Reason != "" {
			fmt.Printf("%s %s -> %s (%s)\n", prefix, sc.From, sc.To, sc.Reason)
		} else {
			fmt.Printf("%s %s -> %s\n", prefix, sc.From, sc.To)
		}
	case event.Error != nil:
		fmt.Printf("%s %s: %s\n", prefix, event.Error.Context, event.Error.Message)
	default:
		fmt.Println(prefix)
	}
}
