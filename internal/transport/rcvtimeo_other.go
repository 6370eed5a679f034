//go:build !unix

package transport

import (
	"net"
	"time"
)

// setSocketTimeout falls back to the Go runtime's read deadline on
// platforms without SO_RCVTIMEO semantics reachable through
// golang.org/x/sys/unix.
func setSocketTimeout(conn net.Conn, d time.Duration) {
	_ = conn.SetReadDeadline(time.Now().Add(d))
}
