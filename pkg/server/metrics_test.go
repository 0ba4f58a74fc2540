package server

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsCountCommands(t *testing.T) {
	srv, _ := newTestServer(t)
	addUser(srv, "root", true).Subscribe("general")
	addUser(srv, "alice", false).Subscribe("general")
	addUser(srv, "bob", false)
	root, _ := connect(t, srv, "root")
	alice, _ := connect(t, srv, "alice")
	connect(t, srv, "bob")

	srv.handleLine(alice, "cm general hi")
	srv.handleLine(alice, "pm root hello")
	srv.handleLine(root, "k bob")
	srv.handleLine(root, "b alice trouble")

	snap := srv.metrics.Snapshot()
	if snap.ChannelMessagesSent != 1 {
		t.Errorf("ChannelMessagesSent = %d, want 1", snap.ChannelMessagesSent)
	}
	if snap.PrivateMessagesSent != 1 {
		t.Errorf("PrivateMessagesSent = %d, want 1", snap.PrivateMessagesSent)
	}
	if snap.KickCount != 1 {
		t.Errorf("KickCount = %d, want 1", snap.KickCount)
	}
	if snap.BanCount != 1 {
		t.Errorf("BanCount = %d, want 1", snap.BanCount)
	}
}

func TestMetricsCountFailedHandshake(t *testing.T) {
	srv, _ := newTestServer(t)

	// recordConn reads EOF immediately, so the handshake resolves as a
	// transport close and the connection is rejected.
	srv.handleConn(&recordConn{})

	snap := srv.metrics.Snapshot()
	if snap.TotalConnections != 1 {
		t.Errorf("TotalConnections = %d, want 1", snap.TotalConnections)
	}
	if snap.ActiveConnections != 0 {
		t.Errorf("ActiveConnections = %d, want 0 after teardown", snap.ActiveConnections)
	}
	if snap.FailedAuths != 1 {
		t.Errorf("FailedAuths = %d, want 1", snap.FailedAuths)
	}
}

func TestMetricsHTTPExposition(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.metrics.BanCount.Add(3)

	rec := httptest.NewRecorder()
	srv.handleMetrics(rec, nil)

	body := rec.Body.String()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		"# TYPE pcsd_uptime_seconds gauge",
		"# TYPE pcsd_connections_active gauge",
		"# TYPE pcsd_bans_total counter",
		"pcsd_bans_total 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsJSONSnapshot(t *testing.T) {
	m := NewMetrics()
	m.SuccessfulAuths.Add(2)
	out := m.JSON()
	if !strings.Contains(out, `"successful_auths": 2`) {
		t.Errorf("JSON snapshot missing counter: %s", out)
	}
}
