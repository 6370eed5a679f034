package wire

import (
	"encoding/binary"
	"math/rand"
)

// classIN is the only QCLASS this resolver ever sends or expects.
const classIN = 1

// header bit layout within byte 2 (flagQR, flagAA, flagTC) and byte 3
// (rcodeMask) of the 12-byte header, per 4.1.1.
const (
	flagQR    = 0x80
	flagAA    = 0x04
	flagTC    = 0x02
	rcodeMask = 0x0F
)

// EncodeQuery builds an iterative (RD=0) query for name/qtype and
// returns the wire bytes along with the transaction ID it chose. The
// payload is exactly 12 + len(encoded qname) + 4 bytes, as required
// by the round-trip properties.
func EncodeQuery(name string, qtype RecordType) (payload []byte, id uint16) {
	id = uint16(rand.Intn(65536))

	qname := encodeName(name)
	payload = make([]byte, 12+len(qname)+4)

	binary.BigEndian.PutUint16(payload[0:2], id)
	// flags: QR=0, Opcode=0, AA=0, TC=0, RD=0, RA=0, Z=0, RCODE=0
	payload[2] = 0x00
	payload[3] = 0x00
	binary.BigEndian.PutUint16(payload[4:6], 1) // QDCOUNT
	binary.BigEndian.PutUint16(payload[6:8], 0) // ANCOUNT
	binary.BigEndian.PutUint16(payload[8:10], 0) // NSCOUNT
	binary.BigEndian.PutUint16(payload[10:12], 0) // ARCOUNT

	n := copy(payload[12:], qname)
	off := 12 + n
	binary.BigEndian.PutUint16(payload[off:off+2], qtype.Code)
	binary.BigEndian.PutUint16(payload[off+2:off+4], classIN)

	return payload, id
}
