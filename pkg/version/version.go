// Package version holds the server name and protocol version.
package version

import (
	"strconv"
	"strings"
)

// Name is the server's product name, shown by the SI command.
const Name = "pcs"

// Version is the release version. The major component doubles as the
// protocol version announced in the authorization banner.
const Version = "1.2.0"

// Major returns the leading component of Version.
func Major() int {
	head, _, _ := strings.Cut(Version, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}
