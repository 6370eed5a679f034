// Package transport sends one DNS query datagram at a time and
// returns the reply, retrying once on timeout.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

const (
	defaultTimeout = 5 * time.Second
	defaultPort    = 53
	maxDatagram    = 1024
)

// ErrNoReply is returned when both the initial send and the single
// retransmission time out.
var ErrNoReply = errors.New("transport: no reply after retransmission")

// UDP sends DNS queries over a fresh UDP socket per request, dialed
// through Dialer. Dialer defaults to a plain net.Dialer but can be
// swapped for a SOCKS-aware dialer (golang.org/x/net/proxy) to route
// queries through a proxy.
type UDP struct {
	Dialer  proxy.ContextDialer
	Timeout time.Duration
	Port    uint16
}

// New returns a UDP transport dialing directly, with the 5s timeout
// and port 53 the spec requires.
func New() *UDP {
	return &UDP{Dialer: &net.Dialer{}}
}

// NewWithDialer returns a UDP transport that opens its sockets
// through dialer, e.g. a golang.org/x/net/proxy SOCKS5 dialer.
func NewWithDialer(dialer proxy.ContextDialer) *UDP {
	return &UDP{Dialer: dialer}
}

func (t *UDP) timeout() time.Duration {
	if t.Timeout > 0 {
		return t.Timeout
	}
	return defaultTimeout
}

func (t *UDP) port() uint16 {
	if t.Port != 0 {
		return t.Port
	}
	return defaultPort
}

func (t *UDP) dialer() proxy.ContextDialer {
	if t.Dialer != nil {
		return t.Dialer
	}
	return &net.Dialer{}
}

// SendReceive sends payload to server on the configured port, waits
// for one reply datagram, and retries exactly once on timeout. Any
// other I/O error propagates immediately.
func (t *UDP) SendReceive(ctx context.Context, payload []byte, server net.IP) ([]byte, error) {
	addr := net.JoinHostPort(server.String(), strconv.Itoa(int(t.port())))

	conn, err := t.dialer().DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	defer conn.Close()

	resp, err := t.exchange(conn, payload)
	if isTimeout(err) {
		resp, err = t.exchange(conn, payload)
		if isTimeout(err) {
			return nil, ErrNoReply
		}
	}
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	return resp, nil
}

func (t *UDP) exchange(conn net.Conn, payload []byte) ([]byte, error) {
	setSocketTimeout(conn, t.timeout())

	if _, err := conn.Write(payload); err != nil {
		return nil, err
	}

	buf := make([]byte, maxDatagram)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
