package domain

// Session is the authentication state of one browser context.
//
// The JSON layout is the persisted blob format:
//
//	{"user": User|null, "isAuthenticated": bool}
type Session struct {
	User          *User `json:"user"`
	Authenticated bool  `json:"isAuthenticated"`
}

// EmptySession is the logged-out state.
func EmptySession() Session {
	return Session{}
}

// LoggedIn returns the session for u. The user is copied.
func LoggedIn(u User) Session {
	return Session{User: &u, Authenticated: true}
}

// Valid reports whether the session is one of the two legal shapes:
// logged out with no user, or logged in with a user holding a known role.
func (s Session) Valid() bool {
	if !s.Authenticated {
		return s.User == nil
	}
	return s.User != nil && s.User.Role.Valid()
}

// Role returns the current user's role, or nil when nobody is logged in.
func (s Session) Role() *Role {
	if !s.Authenticated || s.User == nil {
		return nil
	}
	r := s.User.Role
	return &r
}

// Clone returns a deep copy so callers cannot mutate owner state.
func (s Session) Clone() Session {
	if s.User == nil {
		return s
	}
	u := *s.User
	return Session{User: &u, Authenticated: s.Authenticated}
}
