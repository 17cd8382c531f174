package auth0

// Capabilities checked by the drinks API
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// ClaimSet is the decoded payload of a verified token
type ClaimSet map[string]interface{}

// Subject returns the sub claim, or "" when absent
func (c ClaimSet) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Permissions returns the permissions claim. ok is false when the claim is
// absent or is not a list.
func (c ClaimSet) Permissions() (perms []string, ok bool) {
	raw, present := c["permissions"]
	if !present {
		return nil, false
	}

	switch v := raw.(type) {
	case []string:
		return v, true
	case []interface{}:
		perms = make([]string, 0, len(v))
		for _, p := range v {
			if s, isString := p.(string); isString {
				perms = append(perms, s)
			}
		}
		return perms, true
	default:
		return nil, false
	}
}

// HasPermission reports whether the permissions claim contains permission
func (c ClaimSet) HasPermission(permission string) bool {
	perms, _ := c.Permissions()
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission grants permission when claims carries it. A token without a
// permissions claim is structurally invalid (401); a token whose claim lacks
// the capability is merely insufficient (403).
func CheckPermission(permission string, claims ClaimSet) error {
	if _, ok := claims.Permissions(); !ok {
		return ErrMissingPermissionsClaim
	}
	if !claims.HasPermission(permission) {
		return ErrInsufficientPermissions
	}
	return nil
}
