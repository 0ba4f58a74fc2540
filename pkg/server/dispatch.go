package server

import (
	"fmt"
	"regexp"
	"strings"
)

// handlerFunc is one command verb. Handlers run to completion under the
// server mutex; they never suspend.
type handlerFunc func(s *Server, c *conn, argstr string)

// commandAliases maps mnemonic names to canonical 1-2 character verbs.
// Resolved once at startup; an alias that would shadow a canonical verb
// fails dispatcher construction.
var commandAliases = map[string]string{
	"ban":  "b",
	"help": "h",
	"kick": "k",
	"quit": "q",
	"who":  "w",
}

type dispatcher struct {
	handlers map[string]handlerFunc
}

func newDispatcher() (*dispatcher, error) {
	d := &dispatcher{handlers: map[string]handlerFunc{
		"b":    cmdBan,
		"cm":   cmdChannelMessage,
		"cs":   cmdChannelSubscribe,
		"cu":   cmdChannelUnsubscribe,
		"cw":   cmdChannelWatchers,
		"h":    cmdHelp,
		"k":    cmdKick,
		"ping": cmdPing,
		"pm":   cmdPrivateMessage,
		"pw":   cmdPassword,
		"q":    cmdQuit,
		"si":   cmdServerInfo,
		"ss":   cmdShutdown,
		"ua":   cmdUserAdd,
		"ud":   cmdUserDemote,
		"ui":   cmdUserInfo,
		"ul":   cmdUserList,
		"un":   cmdUserRename,
		"up":   cmdUserPromote,
		"ur":   cmdUserRemove,
		"w":    cmdWho,
	}}

	for alias, canonical := range commandAliases {
		if _, exists := d.handlers[alias]; exists {
			return nil, fmt.Errorf("server: alias %q shadows a canonical verb", alias)
		}
		target, ok := d.handlers[canonical]
		if !ok {
			return nil, fmt.Errorf("server: alias %q targets unknown verb %q", alias, canonical)
		}
		d.handlers[alias] = target
	}
	return d, nil
}

var commandPattern = regexp.MustCompile(`^\s*(\S+)(?:\s+(.+))?$`)

// handleLine parses one complete line into verb + argument string and
// invokes the bound handler under the server mutex.
func (s *Server) handleLine(c *conn, line string) {
	m := commandPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	verb := strings.ToLower(m[1])
	argstr := m[2]

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.dispatch.handlers[verb]
	if !ok {
		c.writeLine("Unknown command. Use the H command if you need help.")
		return
	}
	h(s, c, argstr)
}

// splitArg splits an argument string into its first token and the rest,
// mirroring the `<name> [<detail>]` shape most verbs take.
func splitArg(argstr string) (first, rest string, ok bool) {
	trimmed := strings.TrimSpace(argstr)
	if trimmed == "" {
		return "", "", false
	}
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		return trimmed[:i], strings.TrimSpace(trimmed[i:]), true
	}
	return trimmed, "", true
}
