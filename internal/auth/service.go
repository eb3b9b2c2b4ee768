package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/validation"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot
// tell unknown users from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the user does not exist, keeping the
// response time close to a real comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := HashPassword("folio-no-such-user")
	return h
})

// Session is a freshly issued token for a user.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      store.User
}

type Service struct {
	queries store.Querier
	tokens  *JWTManager
}

func NewService(q store.Querier, tokens *JWTManager) *Service {
	return &Service{queries: q, tokens: tokens}
}

func (s *Service) Tokens() *JWTManager { return s.tokens }

// Login verifies email and password and issues a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.queries.GetUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			CheckPassword(dummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.PasswordHash.Valid || !CheckPassword(user.PasswordHash.String, password) {
		return nil, ErrInvalidCredentials
	}
	return s.SessionFor(user)
}

// SessionFor issues a session for an already authenticated user.
func (s *Service) SessionFor(user store.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// CurrentUser loads the user behind claims.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (store.User, error) {
	id, err := claims.UserID()
	if err != nil {
		return store.User{}, err
	}
	return s.queries.GetUser(ctx, id)
}

// SeedAdmin creates an admin account when none exists for email. It reports
// whether a user was created.
func (s *Service) SeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	email = validation.NormalizeEmail(email)
	if _, err := s.queries.GetUserByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = "Admin"
	}
	if _, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: pgtype.Text{String: hash, Valid: true},
		Role:         RoleAdmin,
	}); err != nil {
		if store.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
