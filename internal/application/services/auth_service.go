package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

const sessionTokenTTL = 24 * time.Hour

// AuthService drives the register -> login -> app state machine over the
// single stored account. Session tokens are JWTs signed with a secret
// generated at process start, so every token dies with the process and the
// session stays memory-only.
type AuthService struct {
	st     *state.State
	logger *logger.Logger
	secret []byte
}

// NewAuthService creates a new auth service with a fresh signing secret.
func NewAuthService(st *state.State, logger *logger.Logger) (*AuthService, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}

	return &AuthService{st: st, logger: logger, secret: secret}, nil
}

// Register creates or overwrites the single account and returns the machine
// to the awaiting-login stage. Re-registration clobbers the existing account
// without confirmation; that is preserved source behavior.
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthStatus, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, entities.ErrEmptyCredentials
	}

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		if r.Session != nil {
			return nil, entities.ErrSessionActive
		}

		r.Account = &entities.Account{
			Name:      username,
			Pass:      req.Password,
			CreatedAt: time.Now().UnixMilli(),
		}
		r.PushHistory("Registered " + username)

		return []string{ports.KeyAccount, ports.KeyHistory}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account registered", "username", username)

	status := s.Status()
	return &status, nil
}

// Login validates the submitted credentials against the stored account by
// exact string equality and opens the session on a match.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.SessionResponse, error) {
	var session entities.Session

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		if r.Account == nil {
			return nil, entities.ErrNoAccount
		}
		if r.Session != nil {
			return nil, entities.ErrSessionActive
		}

		// Plaintext comparison, exactly as stored. No hashing.
		if req.Username != r.Account.Name || req.Password != r.Account.Pass {
			return nil, entities.ErrInvalidCredentials
		}

		session = entities.Session{Name: r.Account.Name, ID: uuid.NewString()}
		r.Session = &session
		r.PushHistory(fmt.Sprintf("User %s logged in.", session.Name))

		return []string{ports.KeyHistory}, nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.Info("User logged in", "username", session.Name)

	return &ports.SessionResponse{Token: token, Name: session.Name}, nil
}

// Logout destroys the session and returns the machine to awaiting-login.
func (s *AuthService) Logout(ctx context.Context) error {
	var name string

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		if r.Session == nil {
			return nil, entities.ErrNotLoggedIn
		}

		name = r.Session.Name
		r.PushHistory(fmt.Sprintf("User %s logged out.", name))
		r.Session = nil

		return []string{ports.KeyHistory}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("User logged out", "username", name)

	return nil
}

// ValidateToken checks the token signature and that it belongs to the live
// session, returning the session name.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	r := s.st.Snapshot()
	if r.Session == nil || r.Session.ID != claims.ID {
		return "", entities.ErrNotLoggedIn
	}

	return r.Session.Name, nil
}

// Status reports the current stage and the registered account name, if any.
func (s *AuthService) Status() ports.AuthStatus {
	r := s.st.Snapshot()

	status := ports.AuthStatus{Stage: entities.StageNoAccount}
	if r.Account != nil {
		status.Stage = entities.StageAwaitingLogin
		status.RegisteredUser = r.Account.Name
	}
	if r.Session != nil {
		status.Stage = entities.StageLoggedIn
	}

	return status
}

func (s *AuthService) signToken(session entities.Session) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   session.Name,
		ID:        session.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

var _ ports.AuthService = (*AuthService)(nil)
