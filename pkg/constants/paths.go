package constants

// Route paths shared between the router and the startup banner.
const (
	PathRoot     = "/"
	PathSessions = "/sessions"
	PathSession  = "/sessions/:id"
	PathWatch    = "/ws/sessions"
	PathHealth   = "/health"
	PathReady    = "/ready"
)
