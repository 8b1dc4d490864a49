package globals

// Context keys
type ContextKey string

const AdminIDKey ContextKey = "adminId"
const AdminEmailKey ContextKey = "adminEmail"
const SessionIDKey ContextKey = "sessionId"

// Cookie names shared by the storefront and the dashboard.
const (
	SessionCookie = "sid"
	AuthCookie    = "auth"
)
