package auth

// Guard is the request-scoped authorization view derived once from the
// presented bearer token. Its predicates are pure functions of the verified
// claims; they never touch the database.
type Guard struct {
	claims *Claims
}

// NewGuard builds a guard from verified claims. A nil claims value yields
// the anonymous guard.
func NewGuard(claims *Claims) *Guard {
	return &Guard{claims: claims}
}

// Anonymous is the guard for requests carrying no valid credential.
func Anonymous() *Guard {
	return &Guard{}
}

func (g *Guard) IsAuthenticated() bool {
	return g.claims != nil
}

func (g *Guard) IsAdmin() bool {
	return g.claims != nil && g.claims.IsAdmin
}

// IsOwnerOrAdmin reports whether the current user may mutate a resource
// owned by ownerID.
func (g *Guard) IsOwnerOrAdmin(ownerID string) bool {
	if g.claims == nil {
		return false
	}
	return g.claims.IsAdmin || g.claims.UserID == ownerID
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func (g *Guard) UserID() string {
	if g.claims == nil {
		return ""
	}
	return g.claims.UserID
}

// Email returns the authenticated user's email, or "" for anonymous requests.
func (g *Guard) Email() string {
	if g.claims == nil {
		return ""
	}
	return g.claims.Email
}
