package store

import "racketoutlet/pkg/domain"

// AuthStatus is the session state machine: anonymous until a login or
// registration succeeds, back to anonymous on logout or irrecoverable refresh
// failure.
type AuthStatus string

const (
	Anonymous     AuthStatus = "anonymous"
	Authenticated AuthStatus = "authenticated"
)

// AuthState is the session slice. Err holds only the latest failure.
type AuthState struct {
	Status  AuthStatus
	User    domain.User
	Loading bool
	Err     string
}

func (s AuthState) clone() AuthState { return s }

// AuthPending marks a login, registration or session restore in flight.
type AuthPending struct{}

// LoggedIn transitions the session to authenticated.
type LoggedIn struct {
	User domain.User
}

// AuthFailed records a failed login or registration.
type AuthFailed struct {
	Err string
}

// SessionCleared resets every session-scoped slice: auth, cart, wishlist,
// orders and home. Dispatched on logout and on irrecoverable refresh failure.
type SessionCleared struct{}

// UserUpdated replaces the cached profile of an authenticated session.
type UserUpdated struct {
	User domain.User
}

func reduceAuth(state AuthState, action Action) (AuthState, bool) {
	switch a := action.(type) {
	case AuthPending:
		state.Loading = true
		state.Err = ""
		return state, true
	case LoggedIn:
		return AuthState{Status: Authenticated, User: a.User}, true
	case AuthFailed:
		state.Loading = false
		state.Err = a.Err
		return state, true
	case UserUpdated:
		if state.Status != Authenticated {
			return state, false
		}
		state.User = a.User
		return state, true
	case SessionCleared:
		return AuthState{Status: Anonymous}, true
	default:
		return state, false
	}
}
