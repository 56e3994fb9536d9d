// Package services contains server-side business logic: the login/register
// orchestration and the message use cases, composed from repositories and
// the auth primitives.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/philipbrowne/messagely/internal/common"
	"github.com/philipbrowne/messagely/internal/dbx"
	"github.com/philipbrowne/messagely/internal/server/auth"
	"github.com/philipbrowne/messagely/internal/server/models"
	"github.com/philipbrowne/messagely/internal/server/repositories/repomanager"
)

// dummyDigest is a valid bcrypt digest of a throwaway string. Login compares
// against it when the username is unknown so that the unknown-user and
// wrong-password paths cost roughly the same wall time.
const dummyDigest = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// RegisterRequest carries the registration form fields. All are required.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserService handles registration, login, and user profile reads.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *UserService {
	return &UserService{db: db, repos: m, hasher: hasher, tokens: tokens}
}

// Login verifies the credentials and returns a fresh session token.
//
// Unknown usernames and wrong passwords both return
// common.ErrInvalidCredentials; callers must not be able to tell which
// case occurred.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.ErrInvalidCredentials
	}

	repo := s.repos.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, dummyDigest)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("fetching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	if err := repo.UpdateLastLogin(ctx, username); err != nil {
		return "", fmt.Errorf("updating last login: %w", err)
	}

	return s.issueToken(user.Username)
}

// Register creates a new account and returns a session token, mirroring
// Login's response shape so callers cannot distinguish "just registered"
// from "just logged in".
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Username == "" || req.Password == "" || req.FirstName == "" ||
		req.LastName == "" || req.Phone == "" {
		return "", common.ErrMissingFields
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: digest,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return common.ErrDuplicateUsername
			}
			return fmt.Errorf("creating user: %w", err)
		}

		if err := repo.UpdateLastLogin(ctx, user.Username); err != nil {
			return fmt.Errorf("updating last login: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return s.issueToken(user.Username)
}

// All returns the public profiles of every registered user.
func (s *UserService) All(ctx context.Context) ([]models.Profile, error) {
	users, err := s.repos.Users(s.db).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// Get returns a single user's full record (minus the password hash, which
// the transport layer never serializes).
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

func (s *UserService) issueToken(username string) (string, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}
