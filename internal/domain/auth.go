package domain

// AuthenticatedIdentity is attached to a request after the authentication
// gate verifies a bearer token. It lives for the request only.
type AuthenticatedIdentity struct {
	Principal string
	Roles     []string
	User      *User
}

// HasRole reports whether the identity carries the given role.
func (i *AuthenticatedIdentity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}
