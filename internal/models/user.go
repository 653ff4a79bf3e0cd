package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is a stored credential: a case-normalized unique email and a bcrypt
// password hash. The hash never leaves the server.
type User struct {
	ID           string    `db:"id" bson:"_id" json:"id"`
	Email        string    `db:"email" bson:"email" json:"email"`
	PasswordHash string    `db:"password_hash" bson:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" bson:"created_at" json:"created_at"`
}

// Claims defines the structure of the session token claims. It lives only
// inside a signed token and, once verified, inside a single request's
// context.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
