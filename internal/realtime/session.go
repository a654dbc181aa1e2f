package realtime

import "regexp"

// SessionHeader names the planning session a request works on.
const SessionHeader = "X-Session-Id"

// DefaultSession is used when a client sends no usable session id.
const DefaultSession = "default"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SessionID returns raw when it is a usable session id and DefaultSession
// otherwise. The HTTP API and the socket hub key sessions the same way.
func SessionID(raw string) string {
	if sessionIDPattern.MatchString(raw) {
		return raw
	}
	return DefaultSession
}
