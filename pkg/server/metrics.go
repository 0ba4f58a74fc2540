package server

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// Metrics tracks server runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	// Connection counters
	TotalConnections  atomic.Int64 // lifetime transport connections accepted
	ActiveConnections atomic.Int64 // current live connections, authorized or not
	SuccessfulAuths   atomic.Int64 // successful authorization handshakes
	FailedAuths       atomic.Int64 // rejected authorization handshakes
	TotalDisconnects  atomic.Int64 // authorized sessions torn down

	// Chat counters
	ChannelMessagesSent atomic.Int64 // channel messages relayed
	PrivateMessagesSent atomic.Int64 // private messages delivered

	// Admin counters
	KickCount atomic.Int64 // users kicked
	BanCount  atomic.Int64 // users banned
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time view of all metrics as a
// serializable struct.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	ActiveConnections int64 `json:"active_connections"`
	TotalConnections  int64 `json:"total_connections"`
	SuccessfulAuths   int64 `json:"successful_auths"`
	FailedAuths       int64 `json:"failed_auths"`
	TotalDisconnects  int64 `json:"total_disconnects"`

	ChannelMessagesSent int64 `json:"channel_messages_sent"`
	PrivateMessagesSent int64 `json:"private_messages_sent"`

	KickCount int64 `json:"kick_count"`
	BanCount  int64 `json:"ban_count"`
}

// Snapshot returns a read-consistent snapshot of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:              uptime.Truncate(time.Second).String(),
		UptimeSeconds:       int64(uptime.Seconds()),
		ActiveConnections:   m.ActiveConnections.Load(),
		TotalConnections:    m.TotalConnections.Load(),
		SuccessfulAuths:     m.SuccessfulAuths.Load(),
		FailedAuths:         m.FailedAuths.Load(),
		TotalDisconnects:    m.TotalDisconnects.Load(),
		ChannelMessagesSent: m.ChannelMessagesSent.Load(),
		PrivateMessagesSent: m.PrivateMessagesSent.Load(),
		KickCount:           m.KickCount.Load(),
		BanCount:            m.BanCount.Load(),
	}
}

// JSON returns the metrics snapshot as a JSON string.
func (m *Metrics) JSON() string {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
