// Command dnslookup is an interactive iterative DNS resolver REPL: it
// takes a root nameserver on the command line and resolves names
// against it, following delegation and CNAMEs itself rather than
// asking the OS resolver or a recursive server to do it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dnswalk/internal/cache"
	"dnswalk/internal/resolver"
	"dnswalk/internal/wire"
)

func main() {
	p1 := flag.Bool("p1", false, "issue a single non-iterative query against the root server per lookup, caching its records without following delegations or CNAMEs")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: dnslookup [-p1] <root-server-ip>")
		os.Exit(1)
	}

	root := net.ParseIP(args[0])
	if root == nil {
		log.Fatalf("invalid root server address: %q", args[0])
	}

	rctx := resolver.New(root)
	rctx.P1 = *p1

	go waitForShutdown()

	runREPL(rctx, os.Stdin, os.Stdout)
}

// waitForShutdown logs receipt of an interrupt so a Ctrl+C during a
// lookup doesn't look like the program hung; the REPL itself exits on
// EOF or "quit"/"exit" rather than being torn down here.
func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	fmt.Printf("\nreceived signal %s, finish the current command or press Ctrl+D to exit\n", sig)
}

// runREPL drives the command loop described by the print path: each
// line is a command, with anything from the first "#" onward
// stripped as a comment (matching the reference's
// commandLine.trim().split("#", 2)[0]) before tokenizing, and
// "lookup"/"l" prints one line per resolved record in
// "%-30s %-5s %-8d %s\n" form, or a single sentinel line when the
// lookup produced nothing.
func runREPL(rctx *resolver.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])

		switch cmd {
		case "lookup", "l":
			handleLookup(rctx, out, fields[1:])
		case "trace":
			handleTrace(rctx, out, fields[1:])
		case "server":
			handleServer(rctx, out, fields[1:])
		case "dump":
			handleDump(rctx, out)
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(out, "unrecognized command: %s\n", fields[0])
		}
	}
}

// stripComment discards everything from the first "#" onward, then
// trims surrounding whitespace, so a comment can trail any command.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func handleLookup(rctx *resolver.Context, out io.Writer, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(out, "usage: lookup <name> [type]")
		return
	}

	name := args[0]
	qtype := wire.TypeA
	if len(args) == 2 {
		t, ok := wire.ParseRecordType(args[1])
		if !ok {
			fmt.Fprintf(out, "unknown record type: %s\n", args[1])
			return
		}
		qtype = t
	}

	rrs, err := rctx.Resolve(context.Background(), name, qtype)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(out, "%-30s %-5s %-8d %s\n", name, qtype.String(), -1, "0.0.0.0")
		return
	}
	if len(rrs) == 0 {
		fmt.Fprintf(out, "%-30s %-5s %-8d %s\n", name, qtype.String(), -1, "0.0.0.0")
		return
	}
	for _, rr := range rrs {
		fmt.Fprintf(out, "%-30s %-5s %-8d %s\n", rr.Name, rr.Type.String(), rr.TTL, rr.Data.String())
	}
}

func handleTrace(rctx *resolver.Context, out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: trace on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		rctx.Trace.SetEnabled(true)
	case "off":
		rctx.Trace.SetEnabled(false)
	default:
		fmt.Fprintln(out, "usage: trace on|off")
	}
}

func handleServer(rctx *resolver.Context, out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: server <ip>")
		return
	}
	ip := net.ParseIP(args[0])
	if ip == nil {
		fmt.Fprintf(out, "invalid address: %s\n", args[0])
		return
	}
	rctx.Root = ip
}

func handleDump(rctx *resolver.Context, out io.Writer) {
	rctx.Cache.ForEach(func(key cache.Key, rrs []wire.ResourceRecord) {
		for _, rr := range rrs {
			fmt.Fprintf(out, "%-30s %-5s %-8d %s\n", rr.Name, rr.Type.String(), rr.TTL, rr.Data.String())
		}
	})
}
