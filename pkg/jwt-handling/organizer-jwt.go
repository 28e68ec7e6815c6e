package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information a token enocodes
type OrganizerClaims struct {
	Payload map[string]string `json:"payload,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewOrganizerToken(expiresIn time.Duration, organizerID string, payload map[string]string, secretKey string) (tokenString string, err error) {
	claims := OrganizerClaims{
		payload,
		jwt.RegisteredClaims{
			Subject:   organizerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateOrganizerToken(tokenString string, secretKey string) (claims *OrganizerClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &OrganizerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*OrganizerClaims)
	valid = valid && token.Valid
	return
}
