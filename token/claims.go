package token

import "github.com/golang-jwt/jwt/v5"

// Claims are the identity assertions carried by a session token. The subject
// is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}
