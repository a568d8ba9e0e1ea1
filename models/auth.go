package models

// AuthContext carries the authenticated caller's identity and bearer
// token. It is threaded explicitly into every upstream call so that no
// request-scoped identity ever lives in a process-wide global.
type AuthContext struct {
	UserID string
	Token  string
}
