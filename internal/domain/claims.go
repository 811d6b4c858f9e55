package domain

// Claims is the identity decoded from a verified access token.
type Claims struct {
	ID   UserID
	Role Role
}

func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }
