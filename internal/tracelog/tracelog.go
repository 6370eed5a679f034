// Package tracelog provides the verbose decode/query tracing toggled
// by the REPL's "trace on|off" command, built on log/slog the way
// _examples/jroosing-HydraDNS's internal/logging package configures
// its application logger.
package tracelog

import (
	"io"
	"log/slog"
	"time"
)

// Tracer prints one line per traced event when enabled, and nothing
// otherwise. The zero value is disabled.
type Tracer struct {
	enabled bool
	logger  *slog.Logger
}

// New builds a Tracer writing to w when enabled. w is typically
// os.Stdout, matching the reference's verbose tracing output.
func New(w io.Writer) *Tracer {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Tracer{logger: slog.New(handler)}
}

// SetEnabled implements the REPL's "trace on|off" command.
func (t *Tracer) SetEnabled(on bool) {
	if t == nil {
		return
	}
	t.enabled = on
}

// Enabled reports the current trace setting.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Query logs an outbound query, matching the reference's
// "Query ID <id> <name> <type> --> <server>" trace line.
func (t *Tracer) Query(id uint16, name, qtype, server string) {
	if !t.Enabled() {
		return
	}
	t.logger.Debug("query", "id", id, "name", name, "type", qtype, "server", server)
}

// Response logs the header summary of a decoded response, matching
// the reference's "Response ID: <id> Authoritative = <bool>" line.
func (t *Tracer) Response(id uint16, authoritative bool) {
	if !t.Enabled() {
		return
	}
	t.logger.Debug("response", "id", id, "authoritative", authoritative)
}

// Record logs one decoded resource record during tracing, matching
// the reference's per-record trace format.
func (t *Tracer) Record(section string, name string, ttl uint32, rtype string, rdata string) {
	if !t.Enabled() {
		return
	}
	t.logger.Debug("record", "section", section, "name", name, "ttl", ttl, "type", rtype, "rdata", rdata)
}

// Event logs a free-form resolver state-machine transition (e.g.
// delegation followed, CNAME chased, indirection limit reached).
func (t *Tracer) Event(msg string, args ...any) {
	if !t.Enabled() {
		return
	}
	t.logger.Debug(msg, args...)
}

// Elapsed is a convenience for callers that want to report how long a
// step took, as the reference's timestamps imply.
func Elapsed(since time.Time) time.Duration {
	return time.Since(since)
}
