package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agridata/farmtrack/internal/models"
)

// ErrInvalidToken is the single failure surfaced for any structural,
// signature, or expiry problem. Callers cannot distinguish a forged token
// from an expired one.
var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 24 * time.Hour

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID uint
	Role   models.Role
	FarmID *uint
}

// Claims carries identity and tenant claims. LegacyFarmID accepts tokens
// minted with the older farmId claim name; verification normalizes the two
// into one field exactly once.
type Claims struct {
	UserID       uint        `json:"id"`
	Role         models.Role `json:"role"`
	FarmID       *uint       `json:"farm_id,omitempty"`
	LegacyFarmID *uint       `json:"farmId,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the user with a 24 hour expiry.
func IssueToken(secret string, user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		FarmID: user.FarmID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a token and returns the normalized
// identity. Any failure is reported as ErrInvalidToken.
func VerifyToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	farmID := claims.FarmID
	if farmID == nil {
		farmID = claims.LegacyFarmID
	}

	return Identity{
		UserID: claims.UserID,
		Role:   claims.Role,
		FarmID: farmID,
	}, nil
}
