package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// startMetricsHTTP starts a lightweight HTTP server that exposes
// /metrics in Prometheus text exposition format plus a /healthz probe.
// It runs in the background and shuts down with the chat server.
//
// Disabled unless Config.MetricsAddr is set.
func (s *Server) startMetricsHTTP() {
	addr := s.cfg.MetricsAddr
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("metrics HTTP listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics HTTP error", "err", err)
		}
	}()

	go func() {
		<-s.done
		_ = srv.Close()
	}()
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Helper for gauge/counter lines.
	// Write errors to http.ResponseWriter are non-actionable; suppress errcheck.
	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}
	writeFloat := func(name, help, mtype string, value float64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %f\n", name, value)
	}

	writeFloat("pcsd_uptime_seconds", "Server uptime in seconds.", "gauge", uptime)

	write("pcsd_connections_active", "Current live transport connections.", "gauge",
		m.ActiveConnections.Load())
	write("pcsd_connections_total", "Lifetime transport connections accepted.", "counter",
		m.TotalConnections.Load())
	write("pcsd_disconnects_total", "Authorized sessions torn down.", "counter",
		m.TotalDisconnects.Load())

	write("pcsd_auth_success_total", "Successful authorization handshakes.", "counter",
		m.SuccessfulAuths.Load())
	write("pcsd_auth_failed_total", "Rejected authorization handshakes.", "counter",
		m.FailedAuths.Load())

	write("pcsd_channel_messages_total", "Channel messages relayed.", "counter",
		m.ChannelMessagesSent.Load())
	write("pcsd_private_messages_total", "Private messages delivered.", "counter",
		m.PrivateMessagesSent.Load())

	write("pcsd_kicks_total", "Users kicked.", "counter",
		m.KickCount.Load())
	write("pcsd_bans_total", "Users banned.", "counter",
		m.BanCount.Load())
}
