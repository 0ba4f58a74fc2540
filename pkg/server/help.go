package server

import (
	"sort"
	"strings"
)

// helpTopics are available to every user. Keys are matched by prefix.
var helpTopics = map[string]string{
	"cm":   "The CM command sends a message on a channel. Syntax: cm <channel name> [<message>]",
	"cs":   "The CS command lets you subscribe to a channel. Syntax: cs [<channel name>]",
	"cu":   "The CU command lets you unsubscribe from a channel. Syntax: cu <channel name>",
	"cw":   "The CW command lets you see who is watching a channel that you are subscribed to. Syntax: cw <channel name>",
	"help": "The H command lets you see help topics. Syntax: h [<topic name>]",
	"pm":   "The PM command sends a private message to another user. Syntax: pm <recipient name> [<message>]",
	"pw":   "The PW command lets you change your password. Syntax: pw [<password>]",
	"quit": "The Q command instructs the server to terminate your connection. Syntax: q",
	"si":   "The SI command lets you peruse information about the server. Syntax: si",
	"who":  "The W command lets you see who is currently connected to the server. Syntax: w [<name>]",
}

// adminHelpTopics are shown to admins on top of the user topics and
// shadow them on lookup.
var adminHelpTopics = map[string]string{
	"ban":  "The B command lets you ban or unban a user. Syntax: b <name> [<reason>]. If reason is not provided and the user is already banned, then the user will be unbanned.",
	"cw":   "The CW command lets you see who is watching a channel. Syntax: cw <channel name>",
	"kick": "The K command lets you kick another user off the server. Syntax: k <name> [<reason>]",
	"pw":   "The PW command lets you set a new password for a user. Syntax: pw <name> [<password>]",
	"ss":   "The SS command lets you shutdown the server. Syntax: ss [<reason>]",
	"ua":   "The UA command lets you add a new user. Syntax: ua <name> [<password>]",
	"ud":   "The UD command lets you demote a user to a regular user. Syntax: ud <name>",
	"ui":   "The UI command lets you view information about a user. Syntax: ui <name>",
	"ul":   "The UL command displays a list of users. Syntax: ul [<partial matching names>]",
	"un":   "The UN command lets you set a new name for a user. Syntax: un <name> <new name>",
	"up":   "The UP command lets you promote a user to become an admin. Syntax: up <name>",
	"ur":   "The UR command lets you remove a user. Syntax: ur <name>",
}

// topicList renders topic names in lowercase sort order, with short
// verbs uppercased after sorting so "help" stays between CW and PM.
func topicList(topics map[string]string) string {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if len(name) <= 2 {
			names[i] = strings.ToUpper(name)
		}
	}
	return strings.Join(names, ", ")
}

// lookupTopic finds the first topic matching the given prefix. Topic
// iteration order is unspecified; prefixes are expected to be
// unambiguous in practice.
func lookupTopic(topics map[string]string, prefix string) (string, bool) {
	for name, text := range topics {
		if strings.HasPrefix(name, prefix) {
			return text, true
		}
	}
	return "", false
}

func cmdHelp(s *Server, c *conn, argstr string) {
	topic := strings.ToLower(strings.TrimSpace(argstr))
	if topic == "" {
		c.writeLine("Help topics: " + topicList(helpTopics) + ".")
		if c.account.Admin {
			c.writeLine("Admin help topics: " + topicList(adminHelpTopics) + ".")
		}
		return
	}
	if c.account.Admin {
		if text, ok := lookupTopic(adminHelpTopics, topic); ok {
			c.writeLine(text)
			return
		}
	}
	if text, ok := lookupTopic(helpTopics, topic); ok {
		c.writeLine(text)
		return
	}
	c.writeLine("That help topic was not found.")
}
