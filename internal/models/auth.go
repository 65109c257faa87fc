package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload carried by bearer tokens accepted at the HTTP
// boundary. There is no login/refresh flow in this service — tokens are
// issued by an external identity provider and only verified here.
type JWTClaims struct {
	Subject string `json:"sub"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
