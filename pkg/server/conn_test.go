package server

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// overlapConn fails the test if two Write calls ever run concurrently,
// the way message-oriented transports do.
type overlapConn struct {
	t       *testing.T
	writing atomic.Bool
}

func (c *overlapConn) Write(p []byte) (int, error) {
	if !c.writing.CompareAndSwap(false, true) {
		c.t.Error("concurrent write to connection")
		return 0, nil
	}
	time.Sleep(time.Millisecond)
	c.writing.Store(false)
	return len(p), nil
}

func (c *overlapConn) Read(_ []byte) (int, error)        { select {} }
func (c *overlapConn) Close() error                      { return nil }
func (c *overlapConn) LocalAddr() net.Addr               { return &net.IPAddr{} }
func (c *overlapConn) RemoteAddr() net.Addr              { return &net.IPAddr{} }
func (c *overlapConn) SetDeadline(_ time.Time) error     { return nil }
func (c *overlapConn) SetReadDeadline(_ time.Time) error { return nil }
func (c *overlapConn) SetWriteDeadline(_ time.Time) error {
	return nil
}

func TestConnSerializesWrites(t *testing.T) {
	c := newConn(&overlapConn{t: t})

	// Broadcasts arrive under the server mutex while overflow notices
	// come from the read goroutine; both must funnel through one
	// writer at a time.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if i%2 == 0 {
					c.writeLine("broadcast line")
				} else {
					c.write("*** Exceeded max command length ***")
				}
			}
		}(i)
	}
	wg.Wait()
}
