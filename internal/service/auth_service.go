package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/model"
	"bizdesk/internal/policy"
	"bizdesk/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // optional: must match the account role when set
}

type AuthResponse struct {
	Token         string         `json:"token"`
	User          model.Identity `json:"user"`
	LandingPath   string         `json:"landing_path"`
	AllowedRoutes []string       `json:"allowed_routes"`
	ExpiresAt     string         `json:"expires_at"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	// Resolve maps a JWT jti to its durable session, rejecting expired or
	// revoked sessions.
	Resolve(ctx context.Context, sessionToken string) (*model.Session, error)
	// Invalidate drops a session unconditionally. Wired to the data store's
	// 401 responses.
	Invalidate(ctx context.Context, sessionToken string)
}

type authService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, jwtSecret []byte) AuthService {
	return &authService{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if !verifyPassword(user.Password, req.Password) {
		return nil, errors.New("invalid username or password")
	}
	if req.Role != "" && req.Role != user.Role {
		return nil, errors.New("selected role does not match your account role")
	}
	if !model.ValidRole(user.Role) {
		return nil, fmt.Errorf("account has unknown role %q", user.Role)
	}
	if user.Status == model.UserStatusDisabled {
		return nil, errors.New("account is disabled")
	}

	now := s.now()
	expiresAt := now.Add(sessionTTL)
	jti := uuid.NewString()

	name := user.Name
	if name == "" {
		name = user.Username
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"jti":  jti,
		"role": user.Role,
		"name": name,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to sign session token")
	}

	session := &model.Session{
		Token:     jti,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Name:      name,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &AuthResponse{
		Token:         signed,
		User:          session.Identity(),
		LandingPath:   policy.LandingPath(user.Role),
		AllowedRoutes: policy.AllowedRoutes(user.Role),
		ExpiresAt:     expiresAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.DeleteByToken(ctx, sessionToken)
}

func (s *authService) Resolve(ctx context.Context, sessionToken string) (*model.Session, error) {
	session, err := s.sessions.FindByToken(ctx, sessionToken)
	if err != nil {
		return nil, errors.New("session not found or revoked")
	}
	if session.Expired(s.now()) {
		_ = s.sessions.DeleteByToken(ctx, sessionToken)
		return nil, errors.New("session expired")
	}
	return session, nil
}

func (s *authService) Invalidate(ctx context.Context, sessionToken string) {
	_ = s.sessions.DeleteByToken(ctx, sessionToken)
}

// verifyPassword accepts bcrypt hashes and, for rows predating hashing,
// falls back to a constant-time plaintext comparison.
func verifyPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
