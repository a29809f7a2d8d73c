package models

import "time"

// LoginRequest is the credential payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the authenticated identity returned to the client.
type UserInfo struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	User UserInfo `json:"user"`
}

// AuthState is the access gate's view of a session. There is a single
// writer for these transitions (the gate service); everyone else reads.
type AuthState string

const (
	// AuthStateUnknown means the session has never been verified.
	AuthStateUnknown AuthState = "unknown"
	// AuthStateEphemeralValid means a verification happened within the
	// short ephemeral window; requests pass without touching storage.
	AuthStateEphemeralValid AuthState = "ephemeral_valid"
	// AuthStateDurableValid means the durable cache entry is still live.
	AuthStateDurableValid AuthState = "durable_valid"
	// AuthStateVerifying means a background re-validation is in flight;
	// the cached identity keeps serving until it resolves.
	AuthStateVerifying AuthState = "verifying"
	// AuthStateUnauthenticated means verification failed or the user
	// logged out.
	AuthStateUnauthenticated AuthState = "unauthenticated"
)

// AuthCacheEntry is the verified identity stored per session token.
type AuthCacheEntry struct {
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	VerifiedAt time.Time `json:"verified_at"`
}

// GateDecision is the final answer of the access gate.
type GateDecision string

const (
	GateAllow GateDecision = "allow"
	GateDeny  GateDecision = "deny"
	// GateRedirectChat tells an already-authenticated non-guest to move
	// on to the chat view instead of rendering an open route like the
	// login form.
	GateRedirectChat GateDecision = "redirect_chat"
)

// GateResponse reports the gate decision and the state that produced it.
type GateResponse struct {
	Decision GateDecision `json:"decision"`
	State    AuthState    `json:"state"`
	User     *UserInfo    `json:"user,omitempty"`
}

// Authenticated reports whether the gate accepted the session.
func (r *GateResponse) Authenticated() bool {
	return r.Decision == GateAllow
}

// RouteDecision applies the route gating table to an evaluated session.
// Routes that require auth render for any authenticated user and bounce
// the rest to login; open routes render for guests and the
// unauthenticated, but send an authenticated non-guest to the chat view.
// adminOnly routes additionally demand the admin role, overriding the
// table.
func (r *GateResponse) RouteDecision(requireAuth, adminOnly bool) GateDecision {
	if adminOnly {
		if r.Authenticated() && r.User != nil && r.User.Role == RoleAdmin {
			return GateAllow
		}
		return GateDeny
	}

	if requireAuth {
		if r.Authenticated() {
			return GateAllow
		}
		return GateDeny
	}

	if r.Authenticated() && r.User != nil && r.User.Role != RoleGuest {
		return GateRedirectChat
	}
	return GateAllow
}
