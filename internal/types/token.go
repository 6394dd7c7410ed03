package types

import "github.com/google/uuid"

// TokenClaims holds the user identity extracted from a validated JWT.
type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}
