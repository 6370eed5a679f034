package wire

import (
	"net"
)

// RData is the tagged payload of a resource record. Which concrete
// type a given RR carries depends on its Type: IPData for A and AAAA,
// NameData for NS and CNAME, TextData for everything else and for
// A/AAAA rdata of the wrong length.
type RData interface {
	// String renders the rdata the way the REPL print path expects.
	String() string
}

// IPData is the rdata for A and AAAA records: a parsed IP address.
type IPData struct {
	Addr net.IP
}

func (d IPData) String() string { return d.Addr.String() }

// NameData is the rdata for NS and CNAME records: a domain name.
type NameData struct {
	Name string
}

func (d NameData) String() string { return d.Name }

// TextData is the rdata for MX and OTHER records, and for A/AAAA
// records whose address bytes didn't parse cleanly: an opaque string.
type TextData struct {
	Text string
}

func (d TextData) String() string { return d.Text }

// ResourceRecord is the (name, type, ttl, rdata) tuple described by
// the data model. TTL is not part of its identity.
type ResourceRecord struct {
	Name string
	Type RecordType
	TTL  uint32
	Data RData
}

