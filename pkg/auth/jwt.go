package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

// Principal identifies an authenticated caller. Tokens are issued by an
// external identity provider; this package only verifies them.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  string
}

type Verifier interface {
	Verify(token string) (*Principal, error)
}

type hmacVerifier struct {
	secret []byte
}

func NewVerifier(secret string) Verifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(tokenStr string) (*Principal, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Authentication("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Authentication("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.Authentication("invalid token claims")
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Principal{ID: id, Email: email, Role: role}, nil
}
