package usecase

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	pkgAuth "github.com/polkiloo/marketplace/internal/pkg/auth"
)

// AuthUseCase registers buyers and sellers and issues their bearer tokens.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates an account and returns it together with a fresh token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (_ *model.User, _ string, err error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.Register")
	defer func() { endSpan(span, err) }()

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, "", domainErrors.ErrPasswordTooLong
		}
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, login, hash)
	if err != nil {
		return nil, "", domainErrors.Dependency("create user", err)
	}
	return u.issue(span, usr)
}

// Authenticate checks credentials. Unknown logins and wrong passwords are
// indistinguishable to the caller.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (_ *model.User, _ string, err error) {
	ctx, span := tracer.Start(ctx, "AuthUseCase.Authenticate")
	defer func() { endSpan(span, err) }()

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", domainErrors.Dependency("load user", err)
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	return u.issue(span, usr)
}

func (u *AuthUseCase) issue(span trace.Span, usr *model.User) (*model.User, string, error) {
	span.SetAttributes(attribute.String("user.id", usr.ID))
	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.Dependency("load user", err)
	}
	return usr, err
}
