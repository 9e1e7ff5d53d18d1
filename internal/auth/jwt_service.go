package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// RefreshTokenExpiry is the duration for which refresh tokens are valid.
const RefreshTokenExpiry = 7 * 24 * time.Hour

var (
	// ErrTokenInvalid is returned for malformed tokens, bad signatures and
	// unexpected signing methods.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned when a structurally valid token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// JWTService issues and verifies HS256 signed tokens carrying a user ID as
// subject. Verification is a pure function of the token, the secret and the
// service clock; rotating the secret invalidates all outstanding tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a token service signing with secret and issuing
// access tokens valid for ttl.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed access token for the user.
func (s *JWTService) Issue(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueRefresh creates a signed refresh token for the user. The token ID (JTI)
// is returned separately for server-side storage.
func (s *JWTService) IssueRefresh(userID uint) (tokenID string, token string, err error) {
	now := s.now()
	tokenID = uuid.New().String()
	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenExpiry)),
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = tokenObj.SignedString(s.secret)
	return tokenID, token, err
}

// Verify checks signature and expiry of a token and returns the subject user
// ID. It fails with ErrTokenExpired only when the token is otherwise valid,
// so callers can distinguish a stale session from a forged one.
func (s *JWTService) Verify(tokenString string) (uint, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	return subjectID(claims)
}

// VerifyRefresh checks a refresh token and returns the subject user ID along
// with the token ID used for server-side revocation lookups.
func (s *JWTService) VerifyRefresh(tokenString string) (userID uint, tokenID string, err error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, "", err
	}
	if claims.ID == "" {
		return 0, "", ErrTokenInvalid
	}
	userID, err = subjectID(claims)
	if err != nil {
		return 0, "", err
	}
	return userID, claims.ID, nil
}

// parse validates structure and signature, then checks expiry against the
// service clock. Claim validation is disabled in the parser so the expiry
// check uses s.now instead of the package-global jwt.TimeFunc.
func (s *JWTService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

func subjectID(claims *jwt.RegisteredClaims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}
