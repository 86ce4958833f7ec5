package token

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/umaimaes/AgroTrace-MS/internal/domain"
	internal_errors "github.com/umaimaes/AgroTrace-MS/internal/errors"
	"github.com/umaimaes/AgroTrace-MS/internal/logger"
)

// Claims is the identity payload embedded in a bearer token.
// Tokens carry an issue timestamp but no expiry: a token stays valid
// until it is explicitly revoked.
type Claims struct {
	UserId int64        `json:"sub"`
	Email  domain.Email `json:"email"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed bearer tokens. It holds no state
// beyond the shared secret; issuance is deterministic for a fixed clock.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs a token with claims {sub, email, iat} for the given user.
func (c *Codec) Issue(user domain.User) (string, error) {
	claims := Claims{
		UserId: user.Id,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		logger.Log.Error("failed to sign token", "user_id", user.Id, "error", err)
		return "", err
	}
	return tokenString, nil
}

// Verify checks that the token splits into three segments and that the
// signature over the first two matches, then returns the decoded claims.
// It does not check token age; revocation is the caller's concern.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Unexpected signing method", StatusCode: http.StatusUnauthorized}
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}
	return claims, nil
}
