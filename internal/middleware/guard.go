package middleware

import "github.com/kmorozova/answerboard/internal/model"

// Decision is the outcome of the route guard: either the view is allowed, or
// the client should be redirected to RedirectTo.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide is the route-guard predicate: a pure function of (session,
// required role). No session redirects to the login view; a role mismatch
// redirects to that role's home view.
func Decide(session *Session, required model.UserRole) Decision {
	if session == nil {
		return Decision{RedirectTo: "/login"}
	}
	if session.Role != required {
		if session.Role == model.RoleTeacher {
			return Decision{RedirectTo: "/answers"}
		}
		return Decision{RedirectTo: "/student/results"}
	}
	return Decision{Allow: true}
}
