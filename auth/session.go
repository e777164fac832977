package auth

import "github.com/ChathuminaK/SkillWave-sub000/api"

// Status is the authentication state of the client.
type Status int

const (
	// StatusAnonymous means no user is signed in. Initial state, and the
	// terminal state after logout.
	StatusAnonymous Status = iota
	// StatusAuthenticating is the transient state while a login or a
	// startup resume is in flight.
	StatusAuthenticating
	// StatusAuthenticated means a user is signed in and the profile is
	// loaded.
	StatusAuthenticated
	// StatusRefreshFailed marks a terminal refresh failure. It resolves
	// to StatusAnonymous before the session is observable again, so
	// callers of Status never see it.
	StatusRefreshFailed
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusRefreshFailed:
		return "refresh-failed"
	default:
		return "unknown"
	}
}

// Session is the in-memory representation of the current actor. User is
// present if and only if Status is StatusAuthenticated.
type Session struct {
	Status       Status
	User         *api.UserProfile
	AccessToken  string
	RefreshToken string
}

// Event is delivered to subscribers when the session settles into a new
// state. SessionExpired marks an involuntary return to StatusAnonymous,
// so a UI can show "your session expired" instead of silently landing on
// the login page.
type Event struct {
	Status         Status
	User           *api.UserProfile
	SessionExpired bool
}
