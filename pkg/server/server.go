// Package server implements the PCS chat server.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pcs-chat/pcsd/pkg/config"
	"github.com/pcs-chat/pcsd/pkg/model"
	"github.com/pcs-chat/pcsd/pkg/store"
	"github.com/pcs-chat/pcsd/pkg/version"
)

// sentinel is the prefix of server control lines a client UI can parse.
const sentinel = "PCS: "

const readChunkSize = 4096

// Server owns the account map and the session registry. Every event
// that touches shared state — command dispatch, authorization
// completion, session teardown — runs under mu, one at a time, which
// is what makes the ban/kick/reconnect sequences race-free. Handlers
// never suspend mid-invocation.
type Server struct {
	cfg      config.Config
	store    store.Store
	dispatch *dispatcher

	mu       sync.Mutex
	users    map[string]*model.Account
	registry *registry
	closing  bool

	listener  net.Listener
	startDate time.Time
	metrics   *Metrics
	done      chan struct{}
}

// New creates a Server. The dispatch table is built (and its alias
// bindings validated) here, so a colliding alias fails startup.
func New(cfg config.Config, st store.Store) (*Server, error) {
	d, err := newDispatcher()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		store:     st,
		dispatch:  d,
		users:     make(map[string]*model.Account),
		registry:  newRegistry(),
		startDate: time.Now(),
		metrics:   NewMetrics(),
		done:      make(chan struct{}),
	}, nil
}

// getUserLocked returns the account stored under key with its record
// invariants repaired. Callers hold s.mu.
func (s *Server) getUserLocked(key string) *model.Account {
	a, ok := s.users[key]
	if !ok {
		return nil
	}
	a.Normalize(key)
	return a
}

// findUserLocked resolves an account by display name, falling back to
// the storage key, case-insensitively. With exact=false a prefix match
// suffices. Callers hold s.mu.
func (s *Server) findUserLocked(name string, exact bool) (string, *model.Account) {
	lc := strings.ToLower(name)
	for key, a := range s.users {
		display := a.Name
		if display == "" {
			display = key
		}
		d := strings.ToLower(display)
		if (exact && d == lc) || (!exact && strings.HasPrefix(d, lc)) {
			return key, s.getUserLocked(key)
		}
	}
	return "", nil
}

// persistLocked flushes the account map to the store. A failed flush is
// logged and swallowed: the in-memory map stays the source of truth
// until the next successful save. Callers hold s.mu.
func (s *Server) persistLocked() {
	if err := s.store.Save(s.users); err != nil {
		slog.Error("account store save failed", "err", err)
	}
}

// checkCredentials evaluates one credential pair against the account
// map. The secret is accepted either raw or as a 64-character digest.
func (s *Server) checkCredentials(name, secret string) authVerdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.users[name] // exact storage-key lookup
	if !ok {
		return authVerdict{reason: "invalid username: " + name}
	}
	if !model.IsDigest(a.Password) {
		a.Password = model.Digest(a.Password)
	}
	if a.Password != model.NormalizeSecret(secret) {
		return authVerdict{reason: "invalid password for " + name}
	}
	if a.Banned != nil {
		return authVerdict{reason: "user banned: " + name}
	}
	a.Normalize(name)
	return authVerdict{key: name}
}

// handleConn drives one transport connection from accept to close.
func (s *Server) handleConn(nc net.Conn) {
	c := newConn(nc)
	s.metrics.TotalConnections.Add(1)
	s.metrics.ActiveConnections.Add(1)

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		c.close()
		s.metrics.ActiveConnections.Add(-1)
		return
	}
	s.registry.addConnected(c)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.registry.removeConnected(c)
		s.mu.Unlock()
		c.close()
		s.metrics.ActiveConnections.Add(-1)
	}()

	verdict := s.authorize(c)
	if !verdict.authorized() {
		s.metrics.FailedAuths.Add(1)
		s.mu.Lock()
		s.broadcastChannelLocked("debug", fmt.Sprintf("Authentication failed from %s: %s", c.remoteIP(), verdict.reason), "", nil)
		s.mu.Unlock()
		slog.Debug("authorization rejected", "remote", c.remoteIP(), "reason", verdict.reason)
		if !c.isClosed() {
			c.writeLine(sentinel + "Disconnect")
			c.close()
		}
		return
	}

	s.serveAuthorized(c, verdict.key)
}

// authorize runs the handshake: banner out, then the first of
// credential line / malformed line / transport error / close / timeout
// settles the machine. The timeout force-closes the transport so a
// silent peer cannot hold the read open.
func (s *Server) authorize(c *conn) authVerdict {
	c.writeLine(fmt.Sprintf("%s%d", sentinel, version.Major()))

	a := newAuthorizer(s.cfg.AuthTimeout.Std(), s.checkCredentials, c.close)

	buf := make([]byte, readChunkSize)
	for {
		n, err := c.nc.Read(buf)
		if n > 0 {
			lines, overflow := c.framer.Feed(string(buf[:n]))
			for _, line := range lines {
				a.Data(line)
			}
			if overflow {
				c.write("*** Exceeded max command length ***")
				c.close()
				a.Closed()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || isClosedErr(err) {
				a.Closed()
			} else {
				a.Error(err)
			}
			return a.Wait()
		}
		select {
		case <-a.done:
			return a.Wait()
		default:
		}
	}
}

// serveAuthorized registers the session, evicting any prior session of
// the same account, then feeds command lines to the dispatcher until
// the transport closes.
func (s *Server) serveAuthorized(c *conn, key string) {
	s.mu.Lock()
	user := s.getUserLocked(key)
	if user == nil {
		// Account removed between verdict and registration.
		s.mu.Unlock()
		c.writeLine(sentinel + "Disconnect")
		c.close()
		return
	}
	c.account = user
	c.key = key

	if existing := s.registry.findAuthorized(user.Name, true); existing != nil {
		existing.writeLine("*** Switching your chat server session to a new port ***")
		existing.writeLine(sentinel + "Disconnect")
		existing.silent = true
		existing.close()
		s.broadcastChannelLocked("connected", user.Name+" reconnected.", "", nil)
	} else {
		s.broadcastChannelLocked("connected", user.Name+" connected.", "", nil)
	}

	c.writeLine(sentinel + "Authorized")
	s.registry.addAuthorized(c)
	s.mu.Unlock()
	s.metrics.SuccessfulAuths.Add(1)

	c.keepAlive(s.cfg.KeepAlive.Std())
	slog.Info("client authenticated", "user", user.Name, "remote", c.remoteIP())

	defer func() {
		s.mu.Lock()
		if s.registry.removeAuthorized(c) && !c.silent {
			s.broadcastChannelLocked("disconnected", user.Name+" disconnected.", "", nil)
		}
		s.mu.Unlock()
		s.metrics.TotalDisconnects.Add(1)
		slog.Info("client disconnected", "user", user.Name)
	}()

	buf := make([]byte, readChunkSize)
	for {
		n, err := c.nc.Read(buf)
		if n > 0 {
			lines, overflow := c.framer.Feed(string(buf[:n]))
			for _, line := range lines {
				s.handleLine(c, line)
			}
			if overflow {
				c.write("*** Exceeded max command length ***")
				c.close()
			}
		}
		if err != nil {
			return
		}
	}
}

// isClosedErr reports whether err is the read error produced by closing
// the transport out from under a blocked read.
func isClosedErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed")
}
