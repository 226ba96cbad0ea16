package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/internal/catalog"
	"github.com/mlindenberg/gastlink-backend/internal/users"
	"github.com/mlindenberg/gastlink-backend/pkg/config"
	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
	"github.com/mlindenberg/gastlink-backend/pkg/security"
)

// RegisterService handles onboarding of customers and suppliers.
type RegisterService interface {
	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) error
	RegisterSupplier(ctx context.Context, req RegisterSupplierRequest) error
}

type registerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error)
}

type registerSupplierRepository interface {
	CreateSupplier(ctx context.Context, supplier *models.SupplierAccount) (*models.SupplierAccount, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
// The factories bind per-transaction repositories.
type RegisterServiceParams struct {
	TxRunner            registerTxRunner
	UserRepoFactory     func(tx *gorm.DB) registerUserRepository
	SupplierRepoFactory func(tx *gorm.DB) registerSupplierRepository
	PasswordConfig      config.PasswordConfig
}

// DefaultUserRepoFactory binds the production users repo to a transaction.
func DefaultUserRepoFactory(tx *gorm.DB) registerUserRepository {
	return users.NewRepository(tx)
}

// DefaultSupplierRepoFactory binds the production catalog repo to a transaction.
func DefaultSupplierRepoFactory(tx *gorm.DB) registerSupplierRepository {
	return catalog.NewRepository(tx)
}

type registerService struct {
	tx           registerTxRunner
	userRepo     func(tx *gorm.DB) registerUserRepository
	supplierRepo func(tx *gorm.DB) registerSupplierRepository
	passwordCfg  config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repo factory required")
	}
	if params.SupplierRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supplier repo factory required")
	}
	return &registerService{
		tx:           params.TxRunner,
		userRepo:     params.UserRepoFactory,
		supplierRepo: params.SupplierRepoFactory,
		passwordCfg:  params.PasswordConfig,
	}, nil
}

func (s *registerService) createUser(ctx context.Context, repo registerUserRepository, email, password, firstName, lastName string, phone *string, role enums.UserRole) (*models.User, error) {
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Role:         role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !strings.Contains(normalized, "@") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	return normalized, nil
}

// RegisterCustomer creates the user and their restaurant profile atomically.
func (s *registerService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.RestaurantName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.userRepo(tx)

		user, err := s.createUser(ctx, repo, email, req.Password, req.FirstName, req.LastName, req.Phone, enums.UserRoleCustomer)
		if err != nil {
			return err
		}

		if _, err := repo.CreateRestaurant(ctx, &models.Restaurant{
			OwnerUserID: user.ID,
			Name:        strings.TrimSpace(req.RestaurantName),
			Address:     req.Address,
			Phone:       req.Phone,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create restaurant")
		}
		return nil
	})
}

// RegisterSupplier creates the user and their supplier account atomically.
func (s *registerService) RegisterSupplier(ctx context.Context, req RegisterSupplierRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if req.MinOrderAmountCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum order amount cannot be negative")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.createUser(ctx, s.userRepo(tx), email, req.Password, req.FirstName, req.LastName, req.Phone, enums.UserRoleSupplier)
		if err != nil {
			return err
		}

		if _, err := s.supplierRepo(tx).CreateSupplier(ctx, &models.SupplierAccount{
			OwnerUserID:         user.ID,
			CompanyName:         strings.TrimSpace(req.CompanyName),
			Description:         req.Description,
			Phone:               req.Phone,
			Email:               &email,
			MinOrderAmountCents: req.MinOrderAmountCents,
			IsActive:            true,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier account")
		}
		return nil
	})
}
