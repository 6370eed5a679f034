package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQueryHeaderRoundTrip(t *testing.T) {
	payload, id := EncodeQuery("example.com", TypeA)

	gotID := binary.BigEndian.Uint16(payload[0:2])
	assert.Equal(t, id, gotID)
	assert.Equal(t, byte(0x00), payload[2], "QR/Opcode/AA/TC/RD must all be zero")
	assert.Equal(t, byte(0x00), payload[3], "RA/Z/RCODE must all be zero")
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(payload[4:6]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(payload[6:8]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(payload[8:10]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(payload[10:12]))
}

func TestEncodeQueryQuestionRoundTrip(t *testing.T) {
	payload, _ := EncodeQuery("www.example.com", TypeAAAA)

	name, next, err := decodeName(payload, 12)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", name)

	qtype := binary.BigEndian.Uint16(payload[next : next+2])
	qclass := binary.BigEndian.Uint16(payload[next+2 : next+4])
	assert.Equal(t, TypeAAAA.Code, qtype)
	assert.Equal(t, uint16(1), qclass)
}

func TestEncodeQueryLength(t *testing.T) {
	name := "a.bb.ccc"
	payload, _ := EncodeQuery(name, TypeNS)

	labelBytes := 0
	for _, label := range []string{"a", "bb", "ccc"} {
		labelBytes += 1 + len(label)
	}
	wantLen := 12 + labelBytes + 1 + 4
	assert.Len(t, payload, wantLen)
}

func TestDecodeNamePointer(t *testing.T) {
	// Craft a message with "ns1.example.com" spelled out at offset 20,
	// then an NS record elsewhere whose NAME field is a 2-byte pointer
	// back to that offset.
	msg := make([]byte, 64)
	offset := 20
	copy(msg[offset:], encodeName("ns1.example.com"))

	pointerAt := 40
	msg[pointerAt] = 0xC0
	msg[pointerAt+1] = byte(offset)

	name, next, err := decodeName(msg, pointerAt)
	require.NoError(t, err)
	assert.Equal(t, "ns1.example.com", name)
	assert.Equal(t, pointerAt+2, next, "cursor must advance exactly 2 bytes over the pointer")
}

func TestDecodeNamePointerChain(t *testing.T) {
	msg := make([]byte, 80)
	tail := 10
	copy(msg[tail:], encodeName("com"))

	mid := 30
	msg[mid] = 0xC0
	msg[mid+1] = byte(tail)

	head := 50
	msg[head] = 0xC0
	msg[head+1] = byte(mid)

	name, next, err := decodeName(msg, head)
	require.NoError(t, err)
	assert.Equal(t, "com", name)
	assert.Equal(t, head+2, next)
}

func TestDecodeNamePointerLoopBounded(t *testing.T) {
	msg := make([]byte, 10)
	// Pointer at offset 0 points to itself: an infinite loop if unbounded.
	msg[0] = 0xC0
	msg[1] = 0x00

	_, _, err := decodeName(msg, 0)
	assert.ErrorIs(t, err, errPointerLoop)
}

// buildResponse assembles a minimal, well-formed DNS response for
// decode tests: one question, and caller-supplied answer/authority/
// additional records already in wire form.
func buildResponse(t *testing.T, id uint16, aa bool, rcode byte, qname string, qtype RecordType, answer, authority, additional [][]byte) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, byte(id>>8), byte(id))
	flagsHi := byte(flagQR)
	if aa {
		flagsHi |= flagAA
	}
	buf = append(buf, flagsHi, rcode)
	buf = append(buf, 0, 1) // QDCOUNT
	buf = appendU16(buf, uint16(len(answer)))
	buf = appendU16(buf, uint16(len(authority)))
	buf = appendU16(buf, uint16(len(additional)))

	buf = append(buf, encodeName(qname)...)
	buf = appendU16(buf, qtype.Code)
	buf = appendU16(buf, 1)

	for _, rr := range answer {
		buf = append(buf, rr...)
	}
	for _, rr := range authority {
		buf = append(buf, rr...)
	}
	for _, rr := range additional {
		buf = append(buf, rr...)
	}
	return buf
}

func appendU16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func buildRR(name string, rtype RecordType, ttl uint32, rdata []byte) []byte {
	var buf []byte
	buf = append(buf, encodeName(name)...)
	buf = appendU16(buf, rtype.Code)
	buf = appendU16(buf, 1)
	buf = append(buf, byte(ttl>>24), byte(ttl>>16), byte(ttl>>8), byte(ttl))
	buf = appendU16(buf, uint16(len(rdata)))
	buf = append(buf, rdata...)
	return buf
}

func TestDecodeDirectAAnswer(t *testing.T) {
	rr := buildRR("example.com", TypeA, 3600, []byte{93, 184, 216, 34})
	buf := buildResponse(t, 42, true, 0, "example.com", TypeA, [][]byte{rr}, nil, nil)

	msg, ok, err := Decode(buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "example.com", msg.Question.Name)
	require.Len(t, msg.Answer, 1)
	assert.Equal(t, "93.184.216.34", msg.Answer[0].Data.String())
	assert.Equal(t, uint32(3600), msg.Answer[0].TTL)
}

func TestDecodeRejectsNonResponse(t *testing.T) {
	buf := make([]byte, 12)
	// QR=0: this is a query, not a response.
	_, ok, err := Decode(buf)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeRejectsNonZeroRcode(t *testing.T) {
	buf := buildResponse(t, 1, false, 3, "example.com", TypeA, nil, nil, nil)
	_, ok, err := Decode(buf)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeRejectsAuthoritativeEmptyAnswer(t *testing.T) {
	buf := buildResponse(t, 1, true, 0, "example.com", TypeA, nil, nil, nil)
	_, ok, err := Decode(buf)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeAAAAFormatting(t *testing.T) {
	rdata := []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	rr := buildRR("example.com", TypeAAAA, 60, rdata)
	buf := buildResponse(t, 7, true, 0, "example.com", TypeAAAA, [][]byte{rr}, nil, nil)

	msg, ok, err := Decode(buf)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, msg.Answer, 1)
	assert.Equal(t, "2001:db8::1", msg.Answer[0].Data.String())
}

func TestDecodeSynthesizesAnswerUnderQuestionName(t *testing.T) {
	cname := buildRR("www.foo.com", TypeCNAME, 60, encodeName("foo.com"))
	a := buildRR("foo.com", TypeA, 60, []byte{1, 2, 3, 4})
	buf := buildResponse(t, 9, true, 0, "www.foo.com", TypeA, [][]byte{cname, a}, nil, nil)

	msg, ok, err := Decode(buf)
	require.NoError(t, err)
	require.True(t, ok)

	var sawSynthesized bool
	for _, rr := range msg.Answer {
		if rr.Name == "www.foo.com" && rr.Type == TypeA {
			sawSynthesized = true
			assert.Equal(t, "1.2.3.4", rr.Data.String())
		}
	}
	assert.True(t, sawSynthesized, "authoritative A answer must be duplicated under the question name")
}

func TestDecodeAuthorityNotDuplicatedIntoAnswer(t *testing.T) {
	ns := buildRR("example.com", TypeNS, 60, encodeName("a.iana-servers.net"))
	glue := buildRR("a.iana-servers.net", TypeA, 60, []byte{199, 43, 135, 53})
	buf := buildResponse(t, 11, false, 0, "example.com", TypeA, nil, [][]byte{ns}, [][]byte{glue})

	msg, ok, err := Decode(buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, msg.Answer)
	require.Len(t, msg.Authority, 1)
	assert.Equal(t, "a.iana-servers.net", msg.Authority[0].Data.String())
	require.Len(t, msg.Additional, 1)
	assert.Equal(t, "199.43.135.53", msg.Additional[0].Data.String())
}
