// Package gate decides, per navigation event, whether a request may reach its
// target view. It is pure: the session is read-only input and the decision has
// no side effects.
package gate

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// SessionState tells whether the identity provider has settled yet.
type SessionState string

const (
	SessionStateResolving SessionState = "resolving"
	SessionStateReady     SessionState = "ready"
)

// Session is the identity record borrowed from the identity provider for the
// duration of one decision.
type Session struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	BranchID  uint        `json:"branch_id,omitempty"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// SessionResult is the identity provider's answer for the current request.
// Session is nil when resolution completed without finding a session.
type SessionResult struct {
	State   SessionState
	Session *Session
}

// Outcome enumerates the terminal states of one navigation decision.
type Outcome string

const (
	// OutcomeRender allows the requested view.
	OutcomeRender Outcome = "render"
	// OutcomeLoading means identity resolution is still in flight. The
	// protected content must not be shown while in this state.
	OutcomeLoading Outcome = "loading"
	// OutcomeRedirectAuth sends an unauthenticated caller to login.
	OutcomeRedirectAuth Outcome = "redirect_auth"
	// OutcomeRedirectDenied sends an authenticated but unauthorized caller
	// to their role home with a denial message.
	OutcomeRedirectDenied Outcome = "redirect_denied"
)

// AuthPath is the login route unauthenticated callers are redirected to.
const AuthPath = "/auth"

// Decision is the gate's verdict for one navigation event.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
	Message    string
}

// Decide resolves a navigation event. The checks run strictly in order:
// resolving, authenticated, authorized. An empty allowedRoles set means any
// authenticated role may pass.
func Decide(result SessionResult, allowedRoles []models.Role) Decision {
	if result.State == SessionStateResolving {
		return Decision{Outcome: OutcomeLoading}
	}

	if result.Session == nil {
		return Decision{Outcome: OutcomeRedirectAuth, RedirectTo: AuthPath}
	}

	if len(allowedRoles) > 0 && !roleAllowed(result.Session.Role, allowedRoles) {
		return Decision{
			Outcome:    OutcomeRedirectDenied,
			RedirectTo: result.Session.Role.HomePath(),
			Message:    "you do not have access to this page",
		}
	}

	return Decision{Outcome: OutcomeRender}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}
