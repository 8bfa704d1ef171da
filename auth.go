package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"khaata/models"
	"khaata/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "khaata_session"
	roleAdmin     = "administrator"
)

var errInvalidCredentials = errors.New("invalid credentials")

// registerUser hashes the password and stores a new user with an empty ledger.
func registerUser(ctx context.Context, st *store.Store, username, password, name, image string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, Password: hashed, Name: name, Image: image}
	if err := st.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// resetPassword stores a new bcrypt hash for an existing user.
func resetPassword(ctx context.Context, st *store.Store, username, password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return st.SetPassword(ctx, strings.TrimSpace(username), hashed)
}

// authenticate returns the user when username and password match, and
// errInvalidCredentials when either does not.
func authenticate(ctx context.Context, st *store.Store, username, password string) (*models.User, error) {
	u, err := st.FindUser(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(u.Password, []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return u, nil
}

// tokens signs and verifies HS256 tokens for browser sessions and admin access.
type tokens struct {
	secret []byte
	ttl    time.Duration
}

func newTokens(secret string, ttl time.Duration) *tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokens{secret: []byte(secret), ttl: ttl}
}

type tokenClaims struct {
	Username string
	Role     string
}

func (t *tokens) issue(username, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = t.ttl
	}
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *tokens) parse(tokenString string) (tokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return t.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return tokenClaims{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return tokenClaims{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, errors.New("invalid claims")
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	return tokenClaims{Username: username, Role: role}, nil
}
