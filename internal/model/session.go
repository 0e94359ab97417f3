package model

// Session is the locally persisted login state of the current surveyor.
// LoggedIn is true iff LoginTimeMs was set by a login.
type Session struct {
	LoggedIn    bool
	UserID      int
	UserName    string
	Username    string
	LoginTimeMs int64
}
