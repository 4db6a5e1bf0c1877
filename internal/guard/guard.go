// Package guard decides, per navigation, whether a page request may proceed.
// Decisions come from an ordered rule list evaluated top to bottom; the first
// matching rule wins.
package guard

import (
	"strings"

	"wanderlist/internal/models"
	"wanderlist/internal/session"
)

// Action is the guard's verdict for a navigation.
type Action int

const (
	// Allow lets the request through unchanged.
	Allow Action = iota
	// Redirect sends the browser to Target with a 3xx.
	Redirect
	// Rewrite serves Target's content under the original URL.
	Rewrite
)

// Decision pairs an action with its target path (empty for Allow).
type Decision struct {
	Action Action
	Target string
}

type rule struct {
	matches func(path string, sess *session.Session) bool
	decide  func(path string, sess *session.Session) Decision
}

// Guard evaluates the rules for the configured path sets.
type Guard struct {
	rules []rule
}

// Config declares which paths are protected and what happens to anonymous
// visitors. LoginPath doubles as the rewrite target for role failures.
type Config struct {
	LoginPath       string
	HomePath        string
	AuthOnlyPaths   []string // pages that redirect authenticated users away
	ProtectedPrefix []string // prefixes requiring any valid session
	AdminPrefix     string   // prefix additionally requiring the admin role
	// RedirectAnonymous controls rule 2: redirect to LoginPath when true,
	// pass through when false.
	RedirectAnonymous bool
}

func DefaultConfig() Config {
	return Config{
		LoginPath:         "/login",
		HomePath:          "/",
		AuthOnlyPaths:     []string{"/login", "/register"},
		ProtectedPrefix:   []string{"/admin", "/user"},
		AdminPrefix:       "/admin",
		RedirectAnonymous: true,
	}
}

// New builds the rule list. Order is load-bearing: the auth-only check runs
// first so an authenticated admin visiting /login is sent home instead of
// falling through to the admin-role check.
func New(cfg Config) *Guard {
	authOnly := func(path string, _ *session.Session) bool {
		for _, p := range cfg.AuthOnlyPaths {
			if path == p {
				return true
			}
		}
		return false
	}

	protected := func(path string, _ *session.Session) bool {
		for _, prefix := range cfg.ProtectedPrefix {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
		return false
	}

	adminOnly := func(path string, _ *session.Session) bool {
		return path == cfg.AdminPrefix || strings.HasPrefix(path, cfg.AdminPrefix+"/")
	}

	return &Guard{rules: []rule{
		{
			matches: authOnly,
			decide: func(_ string, sess *session.Session) Decision {
				if sess != nil {
					return Decision{Action: Redirect, Target: cfg.HomePath}
				}
				return Decision{Action: Allow}
			},
		},
		{
			matches: func(path string, sess *session.Session) bool {
				return sess == nil && protected(path, sess)
			},
			decide: func(_ string, _ *session.Session) Decision {
				if cfg.RedirectAnonymous {
					return Decision{Action: Redirect, Target: cfg.LoginPath}
				}
				return Decision{Action: Allow}
			},
		},
		{
			matches: func(path string, sess *session.Session) bool {
				return adminOnly(path, sess) && sess != nil && sess.Role != models.RoleAdmin
			},
			decide: func(_ string, _ *session.Session) Decision {
				return Decision{Action: Rewrite, Target: cfg.LoginPath + "?error=forbidden"}
			},
		},
	}}
}

// Evaluate runs the rules in order and returns the first match's decision.
// No rule matching means the navigation is allowed.
func (g *Guard) Evaluate(path string, sess *session.Session) Decision {
	for _, r := range g.rules {
		if r.matches(path, sess) {
			return r.decide(path, sess)
		}
	}
	return Decision{Action: Allow}
}
