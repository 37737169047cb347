package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/browse-protocol/browse-go/pkg/browse"
	"github.com/browse-protocol/browse-go/pkg/component"
	"github.com/browse-protocol/browse-go/pkg/service"
	"github.com/browse-protocol/browse-go/pkg/version"
	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// runInteractive starts the interactive prompt. It returns when the user
// quits or the context ends; quitting cancels the whole gateway.
func runInteractive(ctx context.Context, cancel context.CancelFunc, svc *service.BrowseService, builder *browse.TreeBuilder, conn *component.Conn) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "browse> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Failed to create prompt: %v\n", err)
		return
	}
	defer rl.Close()

	s := &session{
		svc:     svc,
		builder: builder,
		conn:    conn,
		out:     rl.Stdout(),
	}
	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "browse", "b":
			s.cmdBrowse(ctx, args)

		case "concat":
			s.cmdConcat(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

// session holds the state of one interactive prompt.
type session struct {
	svc     *service.BrowseService
	builder *browse.TreeBuilder
	conn    *component.Conn
	out     io.Writer
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, `
Browse Gateway Commands:
  browse <jid>    - Browse an entity and print its tree
  concat on|off   - Toggle identity merging for subsequent browses
  status          - Show gateway status
  help            - Show this help
  quit            - Shut the gateway down`)
}

func (s *session) cmdBrowse(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: browse <jid>")
		return
	}

	target, err := xmpp.Parse(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid JID: %v\n", err)
		return
	}

	result := s.builder.Browse(ctx, target, s.svc.Domain(), browse.Options{
		ConcatIdentities: s.svc.ConcatIdentities(),
	})
	s.printResult(result, "")
}

func (s *session) cmdConcat(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(s.out, "Identity merging: %s\n", onOff(s.svc.ConcatIdentities()))
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		s.svc.SetConcatIdentities(true)
	case "off":
		s.svc.SetConcatIdentities(false)
	default:
		fmt.Fprintln(s.out, "Usage: concat on|off")
		return
	}
	fmt.Fprintf(s.out, "Identity merging: %s\n", onOff(s.svc.ConcatIdentities()))
}

func (s *session) cmdStatus() {
	fmt.Fprintf(s.out, "Domain:           %s\n", s.svc.Domain())
	fmt.Fprintf(s.out, "Software:         %s %s (%s)\n", version.Name, version.Number, version.OS())
	fmt.Fprintf(s.out, "Connection:       %s\n", s.conn.ID())
	fmt.Fprintf(s.out, "Identity merging: %s\n", onOff(s.svc.ConcatIdentities()))
}

func (s *session) printResult(result *browse.BrowseResult, indent string) {
	fmt.Fprintf(s.out, "%s%s", indent, result.JID)
	if result.Category != nil {
		fmt.Fprintf(s.out, "  [%s/%s]", *result.Category, deref(result.Type))
	}
	if result.Name != nil {
		fmt.Fprintf(s.out, "  %q", *result.Name)
	}
	if result.Version != nil {
		fmt.Fprintf(s.out, "  v%s", *result.Version)
	}
	fmt.Fprintln(s.out)

	for _, ns := range result.Namespaces {
		fmt.Fprintf(s.out, "%s  ns: %s\n", indent, ns)
	}
	for _, child := range result.Children {
		s.printResult(child, indent+"  ")
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
