package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Session is the cached record of an issued login token.
type Session struct {
	Token          string `json:"token"`
	UserID         string `json:"userId"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email"`
	CreatedAt      int    `json:"createdAt"`
	LastActivityAt int    `json:"lastActivityAt"`
	IsValid        bool   `json:"isValid"`
}

type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}
