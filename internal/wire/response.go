package wire

import (
	"encoding/binary"
	"errors"
	"net"
)

var errShortMessage = errors.New("wire: message shorter than a DNS header")

// Question is the decoded question section of a response.
type Question struct {
	Name   string
	Type   RecordType
	Class  uint16
}

// Message is the fully decoded response: the question the server
// says it's answering, plus the three record sections. Answer and
// Additional are records the caller should cache; Authority is
// returned for delegation-following and is never cached directly
// (per 4.1.2, the authority section is "not inserted into Cache").
type Message struct {
	ID            uint16
	Authoritative bool
	Question      Question
	Answer        []ResourceRecord
	Authority     []ResourceRecord
	Additional    []ResourceRecord
}

// Decode parses a DNS response datagram. It returns ok=false with a
// zero Message when the header rules of 4.1.2 reject the message
// (not a response, truncated, non-zero RCODE, or an authoritative
// empty answer) -- those are "no information" outcomes, not errors,
// so the caller doesn't need to distinguish "rejected" from "garbage"
// to implement the swallow-and-return-empty policy of the resolver.
// A non-nil error means the buffer was too malformed to interpret at
// all (out of bounds while walking records), which the caller treats
// the same way.
func Decode(buf []byte) (msg Message, ok bool, err error) {
	if len(buf) < 12 {
		return Message{}, false, errShortMessage
	}

	id := binary.BigEndian.Uint16(buf[0:2])
	flagsHi := buf[2]
	flagsLo := buf[3]

	qr := flagsHi&flagQR != 0
	tc := flagsHi&flagTC != 0
	aa := flagsHi&flagAA != 0
	rcode := flagsLo & rcodeMask

	qdCount := binary.BigEndian.Uint16(buf[4:6])
	anCount := binary.BigEndian.Uint16(buf[6:8])
	nsCount := binary.BigEndian.Uint16(buf[8:10])
	arCount := binary.BigEndian.Uint16(buf[10:12])

	if !qr || tc || rcode != 0 {
		return Message{}, false, nil
	}
	if aa && anCount == 0 {
		return Message{}, false, nil
	}

	cursor := 12

	// Question section. Only the first question is read; QDCOUNT > 1
	// doesn't occur in practice for the queries this resolver sends.
	var question Question
	if qdCount > 0 {
		qname, next, derr := decodeName(buf, cursor)
		if derr != nil {
			return Message{}, false, derr
		}
		cursor = next
		if cursor+4 > len(buf) {
			return Message{}, false, errTruncatedName
		}
		question = Question{
			Name:  qname,
			Type:  RecordTypeFromCode(binary.BigEndian.Uint16(buf[cursor : cursor+2])),
			Class: binary.BigEndian.Uint16(buf[cursor+2 : cursor+4]),
		}
		cursor += 4
	}

	answers, cursor, err := decodeRRs(buf, cursor, int(anCount))
	if err != nil {
		return Message{}, false, err
	}
	authority, cursor, err := decodeRRs(buf, cursor, int(nsCount))
	if err != nil {
		return Message{}, false, err
	}
	additional, _, err := decodeRRs(buf, cursor, int(arCount))
	if err != nil {
		return Message{}, false, err
	}

	// The special rule in 4.1.2: an authoritative A/AAAA answer is
	// duplicated under the original question name, so that a CNAME
	// chain's terminal address surfaces under the name the user
	// actually asked about. A record already named after the question
	// is not repeated.
	if aa {
		var synthesized []ResourceRecord
		for _, rr := range answers {
			if (rr.Type == TypeA || rr.Type == TypeAAAA) && rr.Name != question.Name {
				synthesized = append(synthesized, ResourceRecord{
					Name: question.Name,
					Type: rr.Type,
					TTL:  rr.TTL,
					Data: rr.Data,
				})
			}
		}
		answers = append(answers, synthesized...)
	}

	return Message{
		ID:            id,
		Authoritative: aa,
		Question:      question,
		Answer:        answers,
		Authority:     authority,
		Additional:    additional,
	}, true, nil
}

// decodeRRs decodes count resource records starting at offset, per
// the common NAME/TYPE/CLASS/TTL/RDLENGTH/RDATA layout shared by the
// answer, authority, and additional sections.
func decodeRRs(buf []byte, offset int, count int) ([]ResourceRecord, int, error) {
	rrs := make([]ResourceRecord, 0, count)
	cursor := offset
	for i := 0; i < count; i++ {
		name, next, err := decodeName(buf, cursor)
		if err != nil {
			return nil, 0, err
		}
		cursor = next
		if cursor+10 > len(buf) {
			return nil, 0, errTruncatedName
		}
		rtype := RecordTypeFromCode(binary.BigEndian.Uint16(buf[cursor : cursor+2]))
		// class at buf[cursor+2:cursor+4] is always IN in practice and unused.
		ttl := binary.BigEndian.Uint32(buf[cursor+4 : cursor+8])
		rdlength := int(binary.BigEndian.Uint16(buf[cursor+8 : cursor+10]))
		cursor += 10

		if cursor+rdlength > len(buf) {
			return nil, 0, errTruncatedName
		}
		data, err := decodeRData(buf, cursor, rtype, rdlength)
		if err != nil {
			return nil, 0, err
		}
		cursor += rdlength

		rrs = append(rrs, ResourceRecord{Name: name, Type: rtype, TTL: ttl, Data: data})
	}
	return rrs, cursor, nil
}

// decodeRData interprets the RDLENGTH bytes at offset according to
// the table in 4.1.3.
func decodeRData(buf []byte, offset int, rtype RecordType, rdlength int) (RData, error) {
	switch rtype {
	case TypeA:
		if rdlength != 4 {
			return TextData{Text: "----"}, nil
		}
		ip := net.IPv4(buf[offset], buf[offset+1], buf[offset+2], buf[offset+3])
		return IPData{Addr: ip}, nil
	case TypeAAAA:
		if rdlength != 16 {
			return TextData{Text: "----"}, nil
		}
		ip := make(net.IP, 16)
		copy(ip, buf[offset:offset+16])
		return IPData{Addr: ip}, nil
	case TypeNS, TypeCNAME:
		name, _, err := decodeName(buf, offset)
		if err != nil {
			return nil, err
		}
		return NameData{Name: name}, nil
	default:
		return TextData{Text: "----"}, nil
	}
}
