//go:build unix

package transport

import (
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// setSocketTimeout sets SO_RCVTIMEO directly on the socket's file
// descriptor, mirroring the reference implementation's
// socket.setSoTimeout(5000) at the OS level rather than only through
// the Go runtime's deadline machinery. The Go-level deadline is set
// first and always takes effect; the syscall is best-effort on top of
// it and its failure is not reported to the caller.
func setSocketTimeout(conn net.Conn, d time.Duration) {
	_ = conn.SetReadDeadline(time.Now().Add(d))

	sc, ok := conn.(syscall.Conn)
	if !ok {
		return
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return
	}
	tv := unix.NsecToTimeval(d.Nanoseconds())
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptTimeval(int(fd), unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
	})
}
