package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

type Session struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// SessionFunc observes session-state changes. A nil session means
// "logged out".
type SessionFunc func(sess *Session)

// AuthService is the process-wide session registry: explicit login/logout/
// current operations plus a watch mechanism for state changes. One instance
// lives for the whole process; torn down with it.
type AuthService struct {
	users  UserRepository
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	watchers map[int]SessionFunc
	nextID   int
}

func NewAuthService(users UserRepository, ttl time.Duration, logger *slog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &AuthService{
		users:    users,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
		watchers: make(map[int]SessionFunc),
	}
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	const op = "service.Auth.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	user := &domain.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, e.ErrUniqueViolation) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrConflict)
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Login verifies credentials and opens a session. Unknown users and wrong
// passwords both come back as PermissionDenied; the caller cannot tell
// which.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*Session, error) {
	const op = "service.Auth.Login"

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrPermissionDenied)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrPermissionDenied)
	}

	now := time.Now().UTC()
	sess := &Session{
		Token:     uuid.NewString(),
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	sess.User.LastLogin = now

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("last_login update failed", slog.Any("error", err))
	}

	s.notify(sess)
	s.logger.Info("user logged in", slog.String("username", user.Username))
	return sess, nil
}

func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.notify(nil)
		s.logger.Info("user logged out", slog.String("username", sess.User.Username))
	}
}

// Current resolves a token into a live session; expired sessions are
// evicted on the way out.
func (s *AuthService) Current(token string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Now().UTC().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, false
	}
	return sess, true
}

// Watch registers an observer for session-state changes and returns its
// release func. Pairing registration with release follows the same
// discipline as incident subscriptions.
func (s *AuthService) Watch(fn SessionFunc) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *AuthService) notify(sess *Session) {
	s.mu.RLock()
	fns := make([]SessionFunc, 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(sess)
	}
}
