package server

import "strings"

// registry tracks every live transport connection and the authorized
// subset eligible for dispatch and broadcast. It is not itself
// synchronized: all access funnels through the server's single event
// mutex, which is what keeps reconnect eviction and kick sequences
// race-free.
type registry struct {
	connected  map[*conn]struct{}
	authorized map[*conn]struct{}
}

func newRegistry() *registry {
	return &registry{
		connected:  make(map[*conn]struct{}),
		authorized: make(map[*conn]struct{}),
	}
}

func (r *registry) addConnected(c *conn)    { r.connected[c] = struct{}{} }
func (r *registry) removeConnected(c *conn) { delete(r.connected, c) }
func (r *registry) addAuthorized(c *conn)   { r.authorized[c] = struct{}{} }

// removeAuthorized reports whether c was in the authorized set.
func (r *registry) removeAuthorized(c *conn) bool {
	if _, ok := r.authorized[c]; !ok {
		return false
	}
	delete(r.authorized, c)
	return true
}

// findAuthorized resolves an authorized session by account display
// name, case-insensitively. With exact=false a prefix match suffices;
// iteration order is unspecified, so prefix callers should treat the
// result as "some matching session".
func (r *registry) findAuthorized(name string, exact bool) *conn {
	lc := strings.ToLower(name)
	for c := range r.authorized {
		got := strings.ToLower(c.account.Name)
		if exact && got == lc {
			return c
		}
		if !exact && strings.HasPrefix(got, lc) {
			return c
		}
	}
	return nil
}

// authorizedCount returns the size of the authorized set.
func (r *registry) authorizedCount() int { return len(r.authorized) }

// eachAuthorized calls fn for every authorized session.
func (r *registry) eachAuthorized(fn func(*conn)) {
	for c := range r.authorized {
		fn(c)
	}
}

// eachConnected calls fn for every live connection, authorized or not.
func (r *registry) eachConnected(fn func(*conn)) {
	for c := range r.connected {
		fn(c)
	}
}
