package wire

import (
	"errors"
	"strings"
)

// maxPointerHops bounds the number of compression-pointer jumps a
// single name decode may follow, guarding against pointer loops in a
// malicious or corrupt response (RFC 1035 4.1.4 doesn't bound this
// itself).
const maxPointerHops = 128

var (
	errTruncatedName = errors.New("wire: name runs past end of message")
	errPointerLoop   = errors.New("wire: too many compression pointer hops")
)

// encodeName splits name on "." and produces the label sequence
// terminated by a zero-length label, per 4.1.1. Empty labels from a
// leading or trailing dot are not special-cased; callers are expected
// to pass well-formed names, matching the reference behavior.
func encodeName(name string) []byte {
	labels := strings.Split(name, ".")
	var out []byte
	for _, label := range labels {
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	return out
}

// decodeName decodes a (possibly compressed) domain name starting at
// offset in msg. It returns the canonicalized dotted name (lowercase,
// no trailing dot) and the offset of the byte immediately following
// the name as it appears at the call site -- which, per 4.1.2, is
// exactly two bytes past a pointer's first byte when the name was
// terminated by one, regardless of how many hops the pointer chain
// itself takes.
func decodeName(msg []byte, offset int) (name string, next int, err error) {
	var labels []string
	pos := offset
	hops := 0
	resumeAt := -1

	for {
		if pos >= len(msg) {
			return "", 0, errTruncatedName
		}
		length := msg[pos]

		if length&0xC0 == 0xC0 {
			if pos+1 >= len(msg) {
				return "", 0, errTruncatedName
			}
			pointer := (int(length&0x3F) << 8) | int(msg[pos+1])
			if resumeAt == -1 {
				resumeAt = pos + 2
			}
			hops++
			if hops > maxPointerHops {
				return "", 0, errPointerLoop
			}
			pos = pointer
			continue
		}

		if length == 0 {
			pos++
			break
		}

		pos++
		end := pos + int(length)
		if end > len(msg) {
			return "", 0, errTruncatedName
		}
		labels = append(labels, string(msg[pos:end]))
		pos = end
	}

	if resumeAt != -1 {
		next = resumeAt
	} else {
		next = pos
	}
	return strings.ToLower(strings.Join(labels, ".")), next, nil
}
