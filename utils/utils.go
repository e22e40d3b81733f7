package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims identify the caller. StudentID is set for student accounts.
type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	Roles     []string  `json:"roles"`
	StudentID *int      `json:"sid,omitempty"`
	Type      TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	SecretKey  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var ErrInvalidToken = errors.New("invalid token")

func GenerateTokens(cfg TokenConfig, userID uuid.UUID, roles []string, studentID *int) (accessToken string, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(cfg, userID, roles, studentID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = sign(cfg.SecretKey, newClaims(userID, roles, studentID, RefreshToken, cfg.RefreshTTL))
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func GenerateAccessToken(cfg TokenConfig, userID uuid.UUID, roles []string, studentID *int) (string, error) {
	return sign(cfg.SecretKey, newClaims(userID, roles, studentID, AccessToken, cfg.AccessTTL))
}

// ParseToken verifies tokenStr and checks it is of the wanted type.
func ParseToken(secret []byte, tokenStr string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Type != want {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func newClaims(userID uuid.UUID, roles []string, studentID *int, typ TokenType, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID:    userID,
		Roles:     roles,
		StudentID: studentID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func sign(secret []byte, claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func HashPassword(pw string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
