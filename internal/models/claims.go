package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the verified identity supplied by the external identity
// collaborator. The token is issued elsewhere; this service only parses
// and trusts it.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Tier   string `json:"tier"`
}
