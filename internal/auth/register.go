package auth

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
	"gorm.io/gorm"

	"github.com/nmoralesdev/receiptdesk-backend/internal/profile"
	"github.com/nmoralesdev/receiptdesk-backend/internal/users"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db"
)

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB     *db.Client
	Hasher passwordHasher
}

type registerService struct {
	db     *db.Client
	hasher passwordHasher
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Hasher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "password hasher required")
	}
	return &registerService{
		db:     params.DB,
		hasher: params.Hasher,
	}, nil
}

// Register creates the user and their business profile in one transaction.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		businessRepo := profile.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if _, err := businessRepo.Create(ctx, profile.CreateBusinessDTO{
			UserID: user.ID,
			Name:   strings.TrimSpace(req.BusinessName),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create business profile")
		}

		return nil
	})
}
