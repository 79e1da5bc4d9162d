package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"campus-arcade-backend/internal/clock"
	"campus-arcade-backend/internal/models"
	"campus-arcade-backend/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrBanned             = errors.New("account is banned")
)

// Auth handles registration and login. Passwords are stored as bcrypt
// hashes; a successful login mints a server-side session and a signed token
// referencing it.
type Auth struct {
	store      store.Store
	jwt        *JWTService
	clock      clock.Clock
	sessionTTL time.Duration
}

func NewAuth(st store.Store, jwtService *JWTService, clk clock.Clock, sessionTTL time.Duration) *Auth {
	return &Auth{store: st, jwt: jwtService, clock: clk, sessionTTL: sessionTTL}
}

// Register creates a member account with a zero balance. Tokens only enter
// circulation through gameplay and admin grants.
func (a *Auth) Register(ctx context.Context, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := a.store.GetAccount(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
		Balance:      0,
		CreatedAt:    a.clock.Now(),
	}
	if err := a.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %v", err)
	}
	return account, nil
}

// Login verifies the password and issues a token. Banned accounts are
// rejected before the password is even checked.
func (a *Auth) Login(ctx context.Context, username, password string) (string, *models.Account, error) {
	account, err := a.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if account.Banned {
		return "", nil, ErrBanned
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := a.clock.Now()
	session := &models.UserSession{
		Username:     username,
		SessionID:    uuid.New().String(),
		CreatedAt:    now,
		LastAccessed: now,
	}
	if err := a.store.SaveSession(ctx, session, a.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %v", err)
	}

	token, err := a.jwt.GenerateToken(username, session.SessionID, account.Role)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// Logout invalidates one session.
func (a *Auth) Logout(ctx context.Context, username, sessionID string) error {
	return a.store.DeleteSession(ctx, username, sessionID)
}
