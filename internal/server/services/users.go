// Package services contains server-side business logic. This file implements
// UserService: registration, login, profile maintenance and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Username string
	Email    string
	FullName string
}

// LoginResult is a freshly issued session token and the identity it carries.
type LoginResult struct {
	Token    string
	Identity auth.Identity
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.TokenCodec
	hasher      *auth.PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.TokenCodec, hasher *auth.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, codec: codec, hasher: hasher}
}

// Register creates an ADMIN account. Username and email must be unique;
// a collision yields *common.ConflictError and creates nothing.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" || in.FullName == "" {
		return nil, common.ErrMissingCredentials
	}
	if len(in.Password) < common.MinPasswordLength {
		return nil, common.ErrPasswordTooShort
	}

	repo := s.repomanager.Users(s.db)

	if err := s.ensureFree(ctx, repo.GetByUsername, in.Username, "username"); err != nil {
		return nil, err
	}
	if in.Email != "" {
		if err := s.ensureFree(ctx, repo.GetByEmail, in.Email, "email"); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        optional(in.Email),
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         common.RoleAdmin,
	}

	// Unique constraints still catch concurrent registrations of the same name.
	u, err := repo.Create(ctx, user)
	if err != nil {
		var conflict *common.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: create user: %v", common.ErrorInternal, err)
	}
	return u, nil
}

func (s *UserService) ensureFree(ctx context.Context, get func(context.Context, string) (*models.User, error), value, field string) error {
	_, err := get(ctx, value)
	switch {
	case err == nil:
		return common.NewConflict(field)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("%w: lookup %s: %v", common.ErrorInternal, field, err)
	}
}

// Login checks the credentials and issues a new session token. Unknown
// usernames and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, common.ErrMissingCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	id := IdentityOf(user)
	token, err := s.codec.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}

	return &LoginResult{Token: token, Identity: id}, nil
}

// UpdateProfile rewrites username, email and full name of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if in.Username == "" || in.FullName == "" {
		return nil, common.NewValidation("Username dan nama lengkap harus diisi")
	}

	repo := s.repomanager.Users(s.db)
	user := &models.User{ID: userID, Username: in.Username, Email: optional(in.Email), FullName: in.FullName}
	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, userID)
}

// DeleteAccount removes userID. Letters it recorded are left in place.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return s.repomanager.Users(s.db).Delete(ctx, userID)
}

// IdentityOf builds the token identity for user.
func IdentityOf(user *models.User) auth.Identity {
	return auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.EmailValue(),
		FullName: user.FullName,
		Role:     user.Role,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
