package server

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pcs-chat/pcsd/pkg/model"
)

// Run loads the account store, binds the listeners and serves until a
// shutdown command or a termination signal arrives.
func (s *Server) Run() error {
	users, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load account store: %w", err)
	}
	if len(users) == 0 && len(s.cfg.Accounts) > 0 {
		users = make(map[string]*model.Account, len(s.cfg.Accounts))
		for key, a := range s.cfg.Accounts {
			users[key] = a.Clone()
		}
		slog.Info("seeded account store from config", "accounts", len(users))
	}

	s.mu.Lock()
	s.users = users
	s.persistLocked()
	s.mu.Unlock()

	ln, err := s.listen()
	if err != nil {
		return err
	}
	s.listener = ln
	slog.Info("listening", "addr", s.cfg.Listen, "tls", s.cfg.CertFile != "")

	go s.acceptLoop(ln)
	s.startMetricsHTTP()

	if s.cfg.WSListen != "" {
		wsln, err := net.Listen("tcp", s.cfg.WSListen)
		if err != nil {
			ln.Close()
			return fmt.Errorf("websocket listen on %s: %w", s.cfg.WSListen, err)
		}
		slog.Info("websocket listening", "addr", s.cfg.WSListen)
		go s.serveWebsocket(wsln)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigs:
		slog.Info("received signal", "signal", sig.String())
		s.mu.Lock()
		if !s.closing {
			s.shutdownLocked(nil, "")
		}
		s.mu.Unlock()
	case <-s.done:
	}
	return s.store.Close()
}

func (s *Server) listen() (net.Listener, error) {
	if s.cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(s.cfg.CertFile, s.cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load TLS keypair: %w", err)
		}
		ln, err := tls.Listen("tcp", s.cfg.Listen, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}
	return ln, nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if isClosedErr(err) {
				return
			}
			slog.Warn("accept failed", "err", err)
			continue
		}
		go s.handleConn(nc)
	}
}

// shutdownLocked announces the shutdown, stops accepting, tears down
// every connection and flushes the store. Callers hold s.mu.
func (s *Server) shutdownLocked(c *conn, reason string) {
	if c != nil {
		c.writeLine("Shutting down the server...")
		s.broadcastChannelLocked("system", ":unceremoniously shuts down the server."+reasonSuffix(reason), c.account.Name, []*conn{c})
		slog.Info("shutdown requested", "by", c.account.Name, "reason", reason)
	} else {
		s.broadcastChannelLocked("system", "Server shutting down."+reasonSuffix(reason), "", nil)
		slog.Info("shutting down", "reason", reason)
	}
	s.closing = true
	if s.listener != nil {
		s.listener.Close()
	}
	s.registry.eachConnected(func(x *conn) {
		x.silent = true
		x.close()
	})
	s.persistLocked()
	close(s.done)
}
