// Package resolver implements the iterative resolution state machine:
// delegation following, glue usage, and CNAME chasing against a root
// nameserver, backed by the wire codec and cache packages.
package resolver

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"dnswalk/internal/cache"
	"dnswalk/internal/tracelog"
	"dnswalk/internal/transport"
	"dnswalk/internal/wire"
)

// maxIndirection bounds the number of CNAME hops a single top-level
// lookup may follow.
const maxIndirection = 10

// ErrMaxIndirection is returned when a CNAME chain exceeds
// maxIndirection hops.
var ErrMaxIndirection = errors.New("maximum number of indirection levels reached")

// Transport is what the resolver needs from the transport layer: send
// one query, get back one reply or an error. *transport.UDP satisfies
// this; tests substitute a fake to supply canned bytes.
type Transport interface {
	SendReceive(ctx context.Context, payload []byte, server net.IP) ([]byte, error)
}

// Context bundles the resolver's dependencies -- the transport, the
// cache, and the currently configured root server -- so that none of
// it needs to live as package-level global state (9, "global mutable
// state -> explicit context"). Apart from P1, which main sets once
// before the REPL starts, only Root is ever mutated after
// construction, and only by the REPL's "server" command between
// lookups.
type Context struct {
	Transport Transport
	Cache     *cache.Cache
	Root      net.IP
	Trace     *tracelog.Tracer

	// P1 restricts Resolve to a single non-iterative query: one
	// query_server call against Root, no delegation walk, no CNAME
	// chasing. Matches the reference's -p1 debug flag, including that
	// it still populates the cache from whatever that one response
	// contained.
	P1 bool
}

// New returns a resolver Context that starts its lookups at root,
// with a direct UDP transport, an empty cache, and a tracer that
// writes to stdout once enabled (it starts disabled).
func New(root net.IP) *Context {
	return &Context{
		Transport: transport.New(),
		Cache:     cache.New(),
		Root:      root,
		Trace:     tracelog.New(os.Stdout),
	}
}

// Resolve is the entry point for a user lookup (4.4.1). It returns
// the resolved record set, which may be empty if the search failed
// for any reason -- a transport error, a malformed response, or an
// empty delegation -- all of which are "no information" outcomes by
// design (7). The one error it returns is ErrMaxIndirection, with an
// empty set, when a CNAME chain runs past maxIndirection hops.
func (c *Context) Resolve(ctx context.Context, name string, qtype wire.RecordType) ([]wire.ResourceRecord, error) {
	return c.resolve(ctx, name, qtype, 0)
}

func (c *Context) resolve(ctx context.Context, name string, qtype wire.RecordType, indirection int) ([]wire.ResourceRecord, error) {
	if c.P1 {
		c.queryServer(ctx, name, qtype, c.Root)
		return nil, nil
	}
	if indirection > maxIndirection {
		c.Trace.Event("indirection limit reached", "name", name, "limit", maxIndirection)
		return nil, ErrMaxIndirection
	}

	if rrs := c.Cache.Lookup(name, qtype); len(rrs) > 0 {
		return rrs, nil
	}

	if cnames := c.Cache.Lookup(name, wire.TypeCNAME); len(cnames) > 0 {
		target := nameTarget(cnames[0])
		if rrs := c.Cache.Lookup(target, qtype); len(rrs) > 0 {
			return rrs, nil
		}
		c.queryChain(ctx, name, qtype)
	} else {
		c.queryChain(ctx, name, qtype)
	}

	if rrs := c.Cache.Lookup(name, qtype); len(rrs) > 0 {
		return rrs, nil
	}

	for _, cn := range c.Cache.Lookup(name, wire.TypeCNAME) {
		target := nameTarget(cn)
		c.Trace.Event("chasing cname", "from", name, "to", target, "indirection", indirection+1)
		sub, err := c.resolve(ctx, target, qtype, indirection+1)
		if err != nil {
			return nil, err
		}
		for _, rr := range sub {
			c.Cache.Insert(wire.ResourceRecord{Name: name, Type: qtype, TTL: rr.TTL, Data: rr.Data})
		}
	}

	return c.Cache.Lookup(name, qtype), nil
}

// queryChain is the iterative delegation walk of 4.4.2, always
// starting fresh at the configured root server.
func (c *Context) queryChain(ctx context.Context, name string, qtype wire.RecordType) {
	c.queryFrom(ctx, name, qtype, c.Root)
}

func (c *Context) queryFrom(ctx context.Context, name string, qtype wire.RecordType, server net.IP) {
	nsSet := c.queryServer(ctx, name, qtype, server)
	c.queryNextLevel(ctx, name, qtype, nsSet)
}

// queryServer sends one query to server, decodes the reply, caches
// its answer and additional records, and returns the authority
// section for the caller to act on. Any transport or decode failure
// is swallowed here -- the single seam design note 9 calls for --
// and simply yields no authority records.
func (c *Context) queryServer(ctx context.Context, name string, qtype wire.RecordType, server net.IP) []wire.ResourceRecord {
	payload, id := wire.EncodeQuery(name, qtype)
	c.Trace.Query(id, name, qtype.String(), server.String())

	sent := time.Now()
	raw, err := c.Transport.SendReceive(ctx, payload, server)
	c.Trace.Event("query round trip", "id", id, "server", server.String(), "elapsed", tracelog.Elapsed(sent))
	if err != nil {
		return nil
	}

	msg, ok, err := wire.Decode(raw)
	if err != nil || !ok {
		return nil
	}
	c.Trace.Response(msg.ID, msg.Authoritative)

	for _, rr := range msg.Answer {
		c.Cache.Insert(rr)
		c.Trace.Record("answer", rr.Name, rr.TTL, rr.Type.String(), rr.Data.String())
	}
	for _, rr := range msg.Authority {
		c.Trace.Record("authority", rr.Name, rr.TTL, rr.Type.String(), rr.Data.String())
	}
	for _, rr := range msg.Additional {
		c.Cache.Insert(rr)
		c.Trace.Record("additional", rr.Name, rr.TTL, rr.Type.String(), rr.Data.String())
	}

	return msg.Authority
}

// queryNextLevel implements the next-hop selection of 4.4.2 step 3:
// prefer an NS with cached glue; otherwise resolve exactly one NS's A
// record from the root and use that, win or lose.
func (c *Context) queryNextLevel(ctx context.Context, name string, qtype wire.RecordType, nsSet []wire.ResourceRecord) {
	if len(c.Cache.Lookup(name, qtype)) > 0 {
		return
	}
	if len(c.Cache.Lookup(name, wire.TypeCNAME)) > 0 {
		return
	}

	for _, rr := range nsSet {
		if rr.Type != wire.TypeNS {
			continue
		}
		host := nameTarget(rr)
		glue := c.Cache.Lookup(host, wire.TypeA)
		if len(glue) == 0 {
			continue
		}
		if ip := addrOf(glue[0]); ip != nil {
			c.Trace.Event("following delegation", "name", name, "ns", host, "via", "glue")
			c.queryFrom(ctx, name, qtype, ip)
		}
		return
	}

	for _, rr := range nsSet {
		if rr.Type != wire.TypeNS {
			continue
		}
		host := nameTarget(rr)
		c.queryChain(ctx, host, wire.TypeA)
		if glue := c.Cache.Lookup(host, wire.TypeA); len(glue) > 0 {
			if ip := addrOf(glue[0]); ip != nil {
				c.Trace.Event("following delegation", "name", name, "ns", host, "via", "resolved")
				c.queryFrom(ctx, name, qtype, ip)
			}
		}
		return
	}
}

func nameTarget(rr wire.ResourceRecord) string {
	if nd, ok := rr.Data.(wire.NameData); ok {
		return nd.Name
	}
	return ""
}

func addrOf(rr wire.ResourceRecord) net.IP {
	if ipd, ok := rr.Data.(wire.IPData); ok {
		return ipd.Addr
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
