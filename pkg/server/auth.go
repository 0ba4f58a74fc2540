package server

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// authVerdict is the terminal outcome of one authorization handshake.
// An empty reason means the handshake resolved Authorized and key names
// the account's storage key.
type authVerdict struct {
	key    string
	reason string
}

func (v authVerdict) authorized() bool { return v.reason == "" }

// authorizer drives one unauthenticated connection through a single
// credential exchange. Four event sources compete to resolve it: a
// credential line, a transport error, a transport close, and the
// timeout. The first event wins; every later event is a no-op. The
// timeout is disarmed on any resolution, so no source can fire twice.
type authorizer struct {
	check func(name, secret string) authVerdict

	mu      sync.Mutex
	settled bool
	verdict authVerdict
	timer   *time.Timer
	done    chan struct{}
}

// newAuthorizer arms the handshake timeout and returns the machine.
// check evaluates a credential pair to a verdict; it runs on whichever
// goroutine delivers the line. onTimeout runs only when the timeout is
// the event that settled the machine, letting the caller unblock a
// pending transport read.
func newAuthorizer(timeout time.Duration, check func(name, secret string) authVerdict, onTimeout func()) *authorizer {
	a := &authorizer{
		check: check,
		done:  make(chan struct{}),
	}
	a.timer = time.AfterFunc(timeout, func() {
		if a.resolve(authVerdict{reason: "connection timeout"}) && onTimeout != nil {
			onTimeout()
		}
	})
	return a
}

// resolve settles the machine; the first caller wins. Reports whether
// this call was the one that settled it.
func (a *authorizer) resolve(v authVerdict) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settled {
		return false
	}
	a.settled = true
	a.verdict = v
	a.timer.Stop()
	close(a.done)
	return true
}

// Data delivers one complete line from the transport.
func (a *authorizer) Data(line string) {
	name, secret, ok := splitCredentialLine(line)
	if !ok {
		a.resolve(authVerdict{reason: fmt.Sprintf("invalid data: %s", line)})
		return
	}
	a.resolve(a.check(name, secret))
}

// Error delivers a transport error.
func (a *authorizer) Error(err error) {
	a.resolve(authVerdict{reason: fmt.Sprintf("connection error: %v", err)})
}

// Closed delivers a transport close.
func (a *authorizer) Closed() {
	a.resolve(authVerdict{reason: "connection close"})
}

// Wait blocks until the machine resolves and returns the verdict.
func (a *authorizer) Wait() authVerdict {
	<-a.done
	return a.verdict
}

// splitCredentialLine parses "<name> [<secret>]". A line with no
// non-space token fails to parse.
func splitCredentialLine(line string) (name, secret string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", "", false
	}
	name, rest, _ := strings.Cut(trimmed, " ")
	return name, strings.TrimSpace(rest), true
}
