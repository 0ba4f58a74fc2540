package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pcs-chat/pcsd/pkg/format"
	"github.com/pcs-chat/pcsd/pkg/model"
)

const adminRequired = "This command requires admin privileges."

// cmdBan bans a user, or lifts a ban when the target is already banned
// and no reason is given. Banning a connected user also disconnects
// them.
func cmdBan(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	name, reason, ok := splitArg(argstr)
	if !ok {
		c.writeLine("Ban who?")
		return
	}
	record := &model.BanRecord{
		By:     c.account.Name,
		Time:   time.Now(),
		Reason: reason,
	}
	if target := s.registry.findAuthorized(name, false); target != nil {
		if target == c {
			c.writeLine("You can't ban yourself.")
			return
		}
		target.account.Banned = record
		c.writeLine("You ban " + target.account.Name + " and they've been kicked off the server.")
		target.writeLine("You have been banned by " + c.account.Name + ".")
		target.writeLine(sentinel + "Disconnect")
		s.broadcastChannelLocked("admin", fmt.Sprintf("%s bans %s and kicked them off the server.%s",
			c.account.Name, target.account.Name, reasonSuffix(reason)), "System", []*conn{c, target})
		target.close()
		s.metrics.BanCount.Add(1)
	} else if _, user := s.findUserLocked(name, false); user != nil {
		if user.Banned != nil && reason == "" {
			c.writeLine("You unban " + user.Name + ".")
			s.broadcastChannelLocked("admin", c.account.Name+" unbans "+user.Name+".", "System", nil)
			user.Banned = nil
		} else {
			user.Banned = record
			c.writeLine("You ban " + user.Name + ".")
			s.broadcastChannelLocked("admin", fmt.Sprintf("%s bans %s.%s",
				c.account.Name, user.Name, reasonSuffix(reason)), "System", []*conn{c})
			s.metrics.BanCount.Add(1)
		}
	} else {
		c.writeLine("Found nobody by that name.")
		return
	}
	s.persistLocked()
}

// cmdKick disconnects a connected user without touching their account.
func cmdKick(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	name, reason, ok := splitArg(argstr)
	if !ok {
		c.writeLine("Kick who?")
		return
	}
	target := s.registry.findAuthorized(name, false)
	if target == nil {
		if _, user := s.findUserLocked(name, false); user != nil {
			c.writeLine(user.Name + " is already offline.")
		} else {
			c.writeLine("Found nobody by that name.")
		}
		return
	}
	if target == c {
		c.writeLine("You can't kick yourself. Please use the Q command instead if you wish to disconnect from the server.")
		return
	}
	c.writeLine("You kick " + target.account.Name + " off the server.")
	target.writeLine("You have been kicked off the server by " + c.account.Name + "." + reasonSuffix(reason))
	target.writeLine(sentinel + "Disconnect")
	s.broadcastChannelLocked("admin", fmt.Sprintf("%s kicks %s off the server.%s",
		c.account.Name, target.account.Name, reasonSuffix(reason)), "System", []*conn{c, target})
	target.close()
	s.metrics.KickCount.Add(1)
}

func cmdShutdown(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	s.shutdownLocked(c, strings.TrimSpace(argstr))
}

// cmdUserAdd creates an account keyed by the given name, with only a
// password digest set. The remaining fields are filled in on first use.
func cmdUserAdd(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	name, password, ok := splitArg(argstr)
	if !ok {
		c.writeLine("Syntax: ua <name> [<password>]")
		return
	}
	lc := strings.ToLower(name)
	for key, a := range s.users {
		if strings.ToLower(key) == lc || (a.Name != "" && strings.ToLower(a.Name) == lc) {
			c.writeLine("There is already a user with that name.")
			return
		}
	}
	s.users[name] = &model.Account{Password: model.Digest(password)}
	c.writeLine("User added: " + name)
	s.broadcastChannelLocked("admin", c.account.Name+" added a new user: "+name, "System", []*conn{c})
	s.persistLocked()
}

// cmdUserDemote strips admin status and the admin channels from an
// exactly named user.
func cmdUserDemote(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	name := strings.TrimSpace(argstr)
	if name == "" {
		c.writeLine("Syntax: ud <name>")
		return
	}
	_, user := s.findUserLocked(name, true)
	if user == nil {
		c.writeLine("Found no user that exactly matches that name.")
		return
	}
	if !user.Admin {
		c.writeLine(user.Name + " has no admin privileges.")
		return
	}
	if user == c.account {
		c.writeLine("You can't demote yourself.")
		return
	}
	user.Admin = false
	user.StripAdminChannels()
	c.writeLine(user.Name + " is no longer an admin.")
	s.broadcastChannelLocked("admin", c.account.Name+" demoted "+user.Name+".", "System", []*conn{c})
	s.persistLocked()
}

// cmdUserInfo reports an account's connection, admin and ban status.
func cmdUserInfo(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	name := strings.TrimSpace(argstr)
	if name == "" {
		c.writeLine("Syntax: ui <name>")
		return
	}
	_, user := s.findUserLocked(name, false)
	if user == nil {
		c.writeLine("User not found.")
		return
	}
	info := []string{user.Name}
	s.registry.eachAuthorized(func(x *conn) {
		if x.account == user {
			info = append(info, "  Connected from: "+x.remoteIP())
		}
	})
	if user.Admin {
		info = append(info, "  Admin: Yes")
	} else {
		info = append(info, "  Admin: No")
	}
	if user.Banned != nil {
		info = append(info, "  Banned: Yes")
		if user.Banned.By != "" {
			info = append(info, "  Banned by: "+user.Banned.By)
		}
		if !user.Banned.Time.IsZero() {
			info = append(info, fmt.Sprintf("  Banned since: %s %s",
				format.DateWordly(user.Banned.Time, true), format.Clock(user.Banned.Time)))
		}
		if user.Banned.Reason != "" {
			info = append(info, "  Ban reason: "+user.Banned.Reason)
		}
	} else {
		info = append(info, "  Banned: No")
	}
	c.writeLine(strings.Join(info, "\n"))
}

// cmdUserList lists account keys, optionally filtered by substring.
func cmdUserList(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	filter := strings.ToLower(strings.TrimSpace(argstr))
	var names []string
	for key := range s.users {
		if filter == "" || strings.Contains(strings.ToLower(key), filter) {
			names = append(names, key)
		}
	}
	if len(names) == 0 {
		if filter != "" {
			c.writeLine("Found no users that match.")
		} else {
			c.writeLine("Found no users.")
		}
		return
	}
	sort.Strings(names)
	c.writeLine(fmt.Sprintf("Found %s: %s.", format.Amount(len(names), "user"), strings.Join(names, ", ")))
}

// cmdUserRename renames an account and re-keys it in the account map.
func cmdUserRename(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	oldName, newName, ok := splitArg(argstr)
	if !ok || newName == "" || strings.ContainsAny(newName, " \t") {
		c.writeLine("Syntax: un <name> <new name>")
		return
	}
	key, user := s.findUserLocked(oldName, true)
	if user == nil {
		c.writeLine("Found no user that exactly matches " + oldName + ".")
		return
	}
	if user.Name == newName {
		c.writeLine("No change.")
		return
	}
	if _, existing := s.findUserLocked(newName, true); existing != nil && existing != user {
		c.writeLine("There is already a user named " + newName + ".")
		return
	}
	previous := user.Name
	if previous == "" {
		previous = key
	}
	delete(s.users, key)
	user.Name = newName
	s.users[newName] = user
	c.writeLine(previous + " has been renamed to " + user.Name + ".")
	s.broadcastChannelLocked("admin", c.account.Name+" renamed user "+previous+" to "+user.Name+".", "System", []*conn{c})
	s.persistLocked()
}

// cmdUserPromote grants admin status to an exactly named user.
func cmdUserPromote(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	name := strings.TrimSpace(argstr)
	if name == "" {
		c.writeLine("Syntax: up <name>")
		return
	}
	_, user := s.findUserLocked(name, true)
	if user == nil {
		c.writeLine("Found no user that exactly matches that name.")
		return
	}
	if user.Admin {
		c.writeLine(user.Name + " is already an admin.")
		return
	}
	user.Admin = true
	user.Subscribe("admin")
	c.writeLine(user.Name + " is now an admin.")
	s.broadcastChannelLocked("admin", c.account.Name+" promoted "+user.Name+".", "System", []*conn{c})
	s.persistLocked()
}

// cmdUserRemove deletes an account by exact display name or key.
func cmdUserRemove(s *Server, c *conn, argstr string) {
	if !c.account.Admin {
		c.writeLine(adminRequired)
		return
	}
	lc := strings.ToLower(strings.TrimSpace(argstr))
	if lc == "" {
		c.writeLine("Syntax: ur <name>")
		return
	}
	for key, a := range s.users {
		display := a.Name
		if display == "" {
			display = key
		}
		if strings.ToLower(display) != lc {
			continue
		}
		if a == c.account {
			c.writeLine("You can't remove yourself.")
			return
		}
		delete(s.users, key)
		c.writeLine("User removed: " + display)
		s.broadcastChannelLocked("admin", c.account.Name+" removed user: "+display, "System", []*conn{c})
		s.persistLocked()
		return
	}
	c.writeLine("Found no user that exactly matches that name.")
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return " Reason: " + reason
}
