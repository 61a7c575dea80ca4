// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Rohith723/nss-election-app/models"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

const issuer = "nss-election"

// Claims identify a session. They never carry voted status.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies signed session tokens
type Sessions struct {
	Secret []byte
	TTL    time.Duration
}

func NewSessions(secret string, ttl time.Duration) Sessions {
	return Sessions{Secret: []byte(secret), TTL: ttl}
}

// Issue signs a token for subject with the given role.
func (s Sessions) Issue(subject, role, name string) (string, time.Time, error) {
	if subject == "" || role == "" {
		return "", time.Time{}, errors.New("required inputs are missing to issue token")
	}

	now := time.Now()
	exp := now.Add(s.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, errors.New("unable to sign the token")
	}
	return signed, exp, nil
}

// IssueVolunteer signs a volunteer session
func (s Sessions) IssueVolunteer(v models.Volunteer) (string, time.Time, error) {
	return s.Issue(v.StudentID, models.RoleVolunteer, v.Name)
}

// IssueAdmin signs an admin session. An admin who must rotate the
// password only gets a rotate-scoped token.
func (s Sessions) IssueAdmin(a models.Admin) (string, string, time.Time, error) {
	role := models.RoleAdmin
	if a.MustRotate {
		role = models.RoleAdminRotate
	}
	token, exp, err := s.Issue(a.Username, role, "")
	return token, role, exp, err
}

// Verify parses a token, with or without a "Bearer " prefix
func (s Sessions) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if len(tokenString) >= 6 && strings.EqualFold(tokenString[:6], "bearer") &&
		(len(tokenString) == 6 || tokenString[6] == ' ') {
		tokenString = strings.TrimSpace(tokenString[6:])
	}
	if tokenString == "" {
		return Claims{}, ErrMissingToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
