package brainrot

// AuthStatus represents what the client currently knows about its own
// session. AuthUnknown is only ever observed before the initial verification
// attempt completes.
type AuthStatus int

const (
	// AuthUnknown indicates that no verification attempt has completed yet.
	AuthUnknown AuthStatus = iota
	// AuthAuthenticated indicates the most recent verification succeeded.
	AuthAuthenticated
	// AuthAnonymous indicates there is no usable session.
	AuthAnonymous
)

func (a AuthStatus) String() string {
	switch a {
	case AuthAuthenticated:
		return "authenticated"
	case AuthAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Session is the client-side record of whether the user is authenticated and
// who they are. When Status is AuthAuthenticated, CurrentUser is non-nil and
// was populated by the most recent successful verification or fetch.
type Session struct {
	Status      AuthStatus
	CurrentUser *UserProfile
}

// LoginResult conveys the outcome of a login or register operation. When
// Success is false, Error carries server-provided detail where available or
// a generic message otherwise.
type LoginResult struct {
	Success bool
	Error   string
}
