package authdomain

import "time"

// Claims represents the domain model for API token claims.
type Claims struct {
	Subject   string // who the token was issued to, e.g. a bot or an operator
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
