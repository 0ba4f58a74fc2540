package server

import (
	"crypto/tls"
	"net"
	"sync"
	"time"

	"github.com/pcs-chat/pcsd/pkg/model"
)

// conn wraps one transport connection. Writes are fire-and-forget: a
// write to a failed transport is swallowed, never surfaced to the
// operation that triggered it.
type conn struct {
	nc     net.Conn
	framer lineFramer

	// Set under the server mutex once authorization succeeds.
	account *model.Account
	key     string // storage key of the bound account

	// silent suppresses the disconnect broadcast. Set only when the
	// session is forcibly replaced by a reconnect.
	silent bool

	// writeMu serializes transport writes: broadcasts arrive under the
	// server mutex while overflow notices come from the connection's
	// own read goroutine, and message-oriented transports reject
	// concurrent writers.
	writeMu sync.Mutex

	closeMu sync.Mutex
	closed  bool
}

func newConn(nc net.Conn) *conn {
	return &conn{nc: nc}
}

// writeLine sends one newline-terminated line. Errors are ignored; a
// dead transport is detected by the connection's own read loop.
func (c *conn) writeLine(line string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, _ = c.nc.Write([]byte(line + "\n"))
}

// write sends raw bytes without a terminator.
func (c *conn) write(s string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, _ = c.nc.Write([]byte(s))
}

// close shuts the transport down. Safe to call more than once and from
// any goroutine; closing is the sole cancellation primitive.
func (c *conn) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.nc.Close()
}

// isClosed reports whether close has been called.
func (c *conn) isClosed() bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.closed
}

// remoteIP returns the peer's address without the port, best effort.
func (c *conn) remoteIP() string {
	addr := c.nc.RemoteAddr()
	if addr == nil {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

// keepAlive arms periodic TCP keep-alive probes when the underlying
// transport supports them. Sessions have no idle timeout; the probe is
// the only liveness check after authorization.
func (c *conn) keepAlive(period time.Duration) {
	nc := c.nc
	if tc, ok := nc.(*tls.Conn); ok {
		nc = tc.NetConn()
	}
	if tc, ok := nc.(*net.TCPConn); ok {
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(period)
	}
}
