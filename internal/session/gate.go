// Package session decides which view a request may reach based on whether a
// credential is present, and stores that credential.
package session

import "strings"

const (
	LoginRoute   = "/login"
	DefaultRoute = "/"
)

type ViewState string

const (
	Anonymous     ViewState = "anonymous"
	Authenticated ViewState = "authenticated"
)

// Decision is the outcome of gating one navigation.
type Decision struct {
	Allow    bool
	Redirect string
	State    ViewState
}

// Decide maps a requested route and credential presence to allow or
// redirect. It is re-evaluated on every navigation and never inspects the
// token itself.
func Decide(route string, hasCredential bool) Decision {
	login := IsLoginRoute(route)
	switch {
	case !hasCredential && !login:
		return Decision{Redirect: LoginRoute, State: Anonymous}
	case hasCredential && login:
		return Decision{Redirect: DefaultRoute, State: Authenticated}
	case hasCredential:
		return Decision{Allow: true, State: Authenticated}
	default:
		return Decision{Allow: true, State: Anonymous}
	}
}

// IsLoginRoute reports whether route belongs to the anonymous-only entry
// point, including the register form posted from it.
func IsLoginRoute(route string) bool {
	route = strings.TrimSuffix(route, "/")
	return route == LoginRoute || strings.HasPrefix(route, LoginRoute+"/")
}
