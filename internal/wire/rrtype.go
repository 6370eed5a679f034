// Package wire implements the DNS message wire format: byte-exact query
// encoding and response decoding, including the RFC 1035 4.1.4
// compressed-name pointer scheme.
package wire

import "strings"

// RecordType is a DNS query/record type code. The zero value is not a
// valid code on the wire; use RecordTypeFromCode to build one from a
// decoded value.
type RecordType struct {
	Code uint16
}

// The record types this resolver knows how to query and interpret.
var (
	TypeA     = RecordType{Code: 1}
	TypeNS    = RecordType{Code: 2}
	TypeCNAME = RecordType{Code: 5}
	TypeMX    = RecordType{Code: 15}
	TypeAAAA  = RecordType{Code: 28}
)

// RecordTypeFromCode builds a RecordType for any wire code, including
// ones this resolver doesn't specifically understand. Unknown codes
// are displayed as OTHER but still carry their numeric value.
func RecordTypeFromCode(code uint16) RecordType {
	return RecordType{Code: code}
}

// IsOther reports whether t falls outside the set of types this
// resolver queries directly.
func (t RecordType) IsOther() bool {
	switch t {
	case TypeA, TypeNS, TypeCNAME, TypeMX, TypeAAAA:
		return false
	default:
		return true
	}
}

// String renders the record type the way the REPL and print path
// expect: the mnemonic for known types, "OTHER" for anything else.
func (t RecordType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeMX:
		return "MX"
	case TypeAAAA:
		return "AAAA"
	default:
		return "OTHER"
	}
}

// ParseRecordType parses a user-supplied type mnemonic, as accepted by
// the REPL's "lookup" command. Only the queryable types are valid
// input; OTHER is never something a user can ask for.
func ParseRecordType(s string) (RecordType, bool) {
	switch strings.ToUpper(s) {
	case "A":
		return TypeA, true
	case "NS":
		return TypeNS, true
	case "CNAME":
		return TypeCNAME, true
	case "MX":
		return TypeMX, true
	case "AAAA":
		return TypeAAAA, true
	default:
		return RecordType{}, false
	}
}
