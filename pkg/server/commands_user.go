package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pcs-chat/pcsd/pkg/format"
	"github.com/pcs-chat/pcsd/pkg/model"
	"github.com/pcs-chat/pcsd/pkg/version"
)

// cmdChannelMessage sends a message on one of the caller's channels,
// resolved by prefix. System channels never match.
func cmdChannelMessage(s *Server, c *conn, argstr string) {
	if len(c.account.Channels) == 0 {
		c.writeLine("You are not subscribed to any channels.")
		return
	}
	name, body, ok := splitArg(argstr)
	if !ok {
		c.writeLine("Send a message on which channel?")
		return
	}
	lc := strings.ToLower(name)
	for _, ch := range c.account.Channels {
		if strings.HasPrefix(ch, lc) && !model.IsSystemChannel(ch) {
			if body == "" {
				body = ":makes some noise."
			}
			s.broadcastChannelLocked(ch, body, c.account.Name, nil)
			s.metrics.ChannelMessagesSent.Add(1)
			return
		}
	}
	c.writeLine("You are not subscribed to that channel.")
}

// cmdChannelSubscribe joins a channel, or lists the caller's
// subscriptions when called bare.
func cmdChannelSubscribe(s *Server, c *conn, argstr string) {
	lc := strings.ToLower(strings.TrimSpace(argstr))
	if lc == "" {
		listSubscriptions(c)
		return
	}
	if err := model.ValidateChannelName(lc); err != nil {
		c.writeLine("Channel names can only contain letters and numbers, and must not exceed 50 characters.")
		return
	}
	if !c.account.Admin && model.IsAdminChannel(lc) {
		c.writeLine("You don't have sufficient privileges to subscribe to that channel.")
		return
	}
	if !c.account.Subscribe(lc) {
		c.writeLine("You are already subscribed to " + lc + ".")
		return
	}
	c.writeLine("You subscribe to the " + lc + " channel.")
	s.broadcastChannelLocked(lc, c.account.Name+" is now subscribed to this channel.", "System", []*conn{c})
	s.persistLocked()
}

// cmdChannelUnsubscribe leaves a channel resolved by exact name or
// prefix; system channels can never be left.
func cmdChannelUnsubscribe(s *Server, c *conn, argstr string) {
	lc := strings.ToLower(strings.TrimSpace(argstr))
	if lc == "" {
		listSubscriptions(c)
		return
	}
	for _, ch := range c.account.Channels {
		if lc == ch || (strings.HasPrefix(ch, lc) && !model.IsSystemChannel(ch)) {
			c.account.Unsubscribe(ch)
			c.writeLine("You unsubscribe from the " + ch + " channel.")
			s.broadcastChannelLocked(ch, c.account.Name+" unsubscribed from this channel.", "System", []*conn{c})
			s.persistLocked()
			return
		}
	}
	c.writeLine("Found no such channel that you can unsubscribe from.")
}

func listSubscriptions(c *conn) {
	if len(c.account.Channels) == 0 {
		c.writeLine("You are not subscribed to any channels.")
		return
	}
	channels := append([]string(nil), c.account.Channels...)
	sort.Strings(channels)
	c.writeLine(fmt.Sprintf("You are subscribed to %s: %s.",
		format.Amount(len(channels), "channel"), strings.Join(channels, ", ")))
}

// cmdChannelWatchers lists who is watching a channel. Admins may query
// any channel by exact name; others only their own subscriptions, by
// prefix.
func cmdChannelWatchers(s *Server, c *conn, argstr string) {
	lc := strings.ToLower(strings.TrimSpace(argstr))
	if lc == "" {
		c.writeLine("Which channel do you wish to see who's currently watching?")
		return
	}

	if c.account.Admin {
		reportWatchers(s, c, lc, "Nobody is watching the %s channel.")
		return
	}

	if len(c.account.Channels) == 0 {
		c.writeLine("You are not subscribed to any channels.")
		return
	}
	for _, ch := range c.account.Channels {
		if strings.HasPrefix(ch, lc) && !model.IsSystemChannel(ch) {
			reportWatchers(s, c, ch, "Nobody is currently watching the %s channel.")
			return
		}
	}
	c.writeLine("You are not subscribed to that channel.")
}

func reportWatchers(s *Server, c *conn, channel, emptyFormat string) {
	var watchers []string
	s.registry.eachAuthorized(func(x *conn) {
		if x.account.Subscribed(channel) {
			watchers = append(watchers, x.account.Name)
		}
	})
	if len(watchers) == 0 {
		c.writeLine(fmt.Sprintf(emptyFormat, channel))
		return
	}
	sort.Strings(watchers)
	verb := fmt.Sprintf("%s are", format.Amount(len(watchers), "user"))
	if len(watchers) == 1 {
		verb = "One user is"
	}
	c.writeLine(fmt.Sprintf("%s watching the %s channel: %s.", verb, channel, strings.Join(watchers, ", ")))
}

func cmdPing(s *Server, c *conn, argstr string) {
	id := strings.TrimSpace(argstr)
	if id != "" {
		c.writeLine("Pong! " + id)
		return
	}
	c.writeLine("Pong!")
}

// cmdPrivateMessage delivers a message to a currently connected user.
func cmdPrivateMessage(s *Server, c *conn, argstr string) {
	name, body, ok := splitArg(argstr)
	if !ok {
		c.writeLine("Send a private message to who?")
		return
	}
	to := s.registry.findAuthorized(name, false)
	if to == nil {
		if _, user := s.findUserLocked(name, false); user != nil {
			c.writeLine(user.Name + " is not connected.")
		} else {
			c.writeLine("Found nobody by that name.")
		}
		return
	}
	if to == c {
		c.writeLine("You can't PM yourself.")
		return
	}
	if body == "" {
		body = ":pokes " + to.account.Name + "."
	}
	s.sendPrivateLocked(c, to, body)
}

// cmdPassword changes the caller's password, or — for admins — sets a
// new password for any exactly named user.
func cmdPassword(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.account.Password = model.Digest(strings.TrimSpace(argstr))
		c.writeLine("New password set.")
		s.persistLocked()
		return
	}

	name, password, ok := splitArg(argstr)
	if !ok {
		c.writeLine("Syntax: pw <name> [<password>]")
		return
	}
	_, user := s.findUserLocked(name, true)
	if user == nil {
		c.writeLine("Found no user that exactly matches that name.")
		return
	}
	user.Password = model.Digest(password)
	if user == c.account {
		c.writeLine("Your password is now updated.")
	} else {
		c.writeLine("New password set for " + user.Name + ".")
		s.broadcastChannelLocked("admin", c.account.Name+" changed the password for "+user.Name+".", "System", []*conn{c})
	}
	s.persistLocked()
}

func cmdQuit(s *Server, c *conn, argstr string) {
	c.writeLine(sentinel + "Disconnect")
	c.close()
}

// cmdServerInfo reports the server version and uptime.
func cmdServerInfo(s *Server, c *conn, argstr string) {
	c.writeLine(fmt.Sprintf("%s version %s.", version.Name, version.Version))
	c.writeLine(fmt.Sprintf("The server has been up since %s %s (%s).",
		format.Date(s.startDate), format.Clock(s.startDate),
		format.Duration(time.Now(), s.startDate)))
}

// cmdWho lists connected users, or looks one up by name prefix.
func cmdWho(s *Server, c *conn, argstr string) {
	name := strings.TrimSpace(argstr)
	if name == "" {
		var names []string
		s.registry.eachAuthorized(func(x *conn) {
			names = append(names, x.account.Name)
		})
		sort.Strings(names)
		count := s.registry.authorizedCount()
		verb := fmt.Sprintf("%s are", format.Amount(count, "user"))
		if count == 1 {
			verb = "One user is"
		}
		c.writeLine(fmt.Sprintf("%s currently connected: %s.", verb, strings.Join(names, ", ")))
		return
	}
	if x := s.registry.findAuthorized(name, false); x != nil {
		c.writeLine(x.account.Name + " is connected.")
		return
	}
	if _, user := s.findUserLocked(name, false); user != nil {
		c.writeLine(user.Name + " is offline.")
		return
	}
	c.writeLine("Found nobody by that name.")
}
