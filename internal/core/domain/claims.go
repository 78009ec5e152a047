package domain

import "time"

// Claims is the identity snapshot carried by a bearer token.
type Claims struct {
	UserID    string
	Email     string
	Role      Role
	ExpiresAt time.Time
}
