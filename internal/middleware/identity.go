package middleware

// identity.go holds the context key shared between SessionAuth, the rate
// limiter and the design handlers.

import "github.com/labstack/echo/v4"

// SessionKey is the echo context key SessionAuth stores the session id under.
const SessionKey = "session_id"

// SessionID returns the authenticated session id, or "" when the request
// did not pass through SessionAuth.
func SessionID(c echo.Context) string {
	if s, ok := c.Get(SessionKey).(string); ok {
		return s
	}
	return ""
}

// sessionOrAnon is SessionID with a placeholder suitable for cache and rate
// limit keys.
func sessionOrAnon(c echo.Context) string {
	if s := SessionID(c); s != "" {
		return s
	}
	return "anon"
}
