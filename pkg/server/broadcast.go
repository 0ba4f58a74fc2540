package server

import (
	"fmt"
	"strings"
)

// formatFrom renders a message body with its sender identity. A body
// starting with a colon is a third-person action ("alice waves"); any
// other body is a direct statement ("alice: hi"). With no identity the
// body passes through verbatim as a system notice.
func formatFrom(name, message string) string {
	if name == "" {
		return message
	}
	if rest, ok := strings.CutPrefix(message, ":"); ok {
		return name + " " + rest
	}
	return name + ": " + message
}

// pmSuffix renders a private-message body for appending after a name:
// ": hi" for statements, " pokes you" style for actions.
func pmSuffix(message string) string {
	if rest, ok := strings.CutPrefix(message, ":"); ok {
		return " " + rest
	}
	return ": " + message
}

func excludes(excluded []*conn, c *conn) bool {
	for _, x := range excluded {
		if x == c {
			return true
		}
	}
	return false
}

// broadcastChannelLocked delivers a formatted line to every authorized
// session subscribed to channel, except those excluded. from may be an
// account display name or empty for a system notice. Callers hold s.mu.
func (s *Server) broadcastChannelLocked(channel, message, from string, excluded []*conn) {
	channel = strings.ToLower(channel)
	data := fmt.Sprintf("[CM | %s] %s", channel, formatFrom(from, message))
	s.registry.eachAuthorized(func(c *conn) {
		if excludes(excluded, c) || !c.account.Subscribed(channel) {
			return
		}
		c.writeLine(data)
	})
}

// broadcastGlobalLocked delivers to every authorized session with no
// channel filter. Callers hold s.mu.
func (s *Server) broadcastGlobalLocked(message, from string, excluded []*conn) {
	data := formatFrom(from, message)
	s.registry.eachAuthorized(func(c *conn) {
		if excludes(excluded, c) {
			return
		}
		c.writeLine(data)
	})
}

// sendPrivateLocked delivers a private message with distinct framing
// for the sender and the recipient. A nil from denotes a
// server-originated message, delivered to the recipient only.
// Callers hold s.mu.
func (s *Server) sendPrivateLocked(from, to *conn, message string) {
	if to == nil {
		return
	}
	s.metrics.PrivateMessagesSent.Add(1)
	suffix := pmSuffix(message)
	if from != nil {
		from.writeLine(fmt.Sprintf("[PM | %s] %s%s", to.account.Name, from.account.Name, suffix))
		to.writeLine(fmt.Sprintf("[PM | %s] %s%s", from.account.Name, from.account.Name, suffix))
	} else {
		to.writeLine(fmt.Sprintf("[PM | System] Server%s", suffix))
	}
}
