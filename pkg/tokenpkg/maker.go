// Package tokenpkg issues and verifies access tokens.
package tokenpkg

import (
	"fmt"
	"time"
)

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for the user and duration.
	CreateToken(userID int64, username string, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// Supported token makers.
const (
	MakerPaseto = "paseto"
	MakerJWT    = "jwt"
)

// NewMaker returns the maker of the given kind.
func NewMaker(kind, secretKey string) (Maker, error) {
	switch kind {
	case MakerPaseto, "":
		return NewPasetoMaker(secretKey)
	case MakerJWT:
		return NewJWTMaker(secretKey)
	}

	return nil, fmt.Errorf("unsupported token maker %q", kind)
}
