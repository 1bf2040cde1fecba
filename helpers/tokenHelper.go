package helpers

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var ErrTokenExpired = errors.New("token is expired")
var ErrTokenInvalid = errors.New("the token is invalid")

// Token kinds, carried in the standard "sub" claim.
const (
	AccessSubject  = "access"
	RefreshSubject = "refresh"
)

type SignedDetails struct {
	Email string
	Name  string
	Uid   string
	jwt.StandardClaims
}

// TokenIssuer signs and validates HS256 access and refresh tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the issuer's time source.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

func (i *TokenIssuer) GenerateAllTokens(email string, name string, uid string) (signedToken string, refreshSignedToken string, expiresAt time.Time, err error) {
	expiresAt = i.now().Add(i.ttl)
	claim := SignedDetails{
		Email: email,
		Name:  name,
		Uid:   uid,
		StandardClaims: jwt.StandardClaims{
			Subject:   AccessSubject,
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  i.now().Unix(),
		},
	}
	refreshClaim := SignedDetails{
		Uid: uid,
		StandardClaims: jwt.StandardClaims{
			Subject:   RefreshSubject,
			ExpiresAt: i.now().Add(7 * i.ttl).Unix(),
			IssuedAt:  i.now().Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString(i.secret)
	if err != nil {
		return "", "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaim).SignedString(i.secret)
	if err != nil {
		return "", "", time.Time{}, errors.Wrap(err, "sign refresh token")
	}
	return token, refreshToken, expiresAt, nil
}

// ValidateToken accepts only unexpired access tokens; refresh tokens are rejected.
func (i *TokenIssuer) ValidateToken(signedToken string) (*SignedDetails, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return i.secret, nil
		},
	)
	if err != nil {
		return nil, errors.Wrap(ErrTokenInvalid, err.Error())
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject != AccessSubject {
		return nil, errors.Wrap(ErrTokenInvalid, "not an access token")
	}
	if claims.ExpiresAt < i.now().Unix() {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
