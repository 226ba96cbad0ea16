package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/internal/users"
	"github.com/mlindenberg/gastlink-backend/pkg/config"
	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterUserRepo struct {
	byEmail     map[string]*models.User
	createdUser *models.User
	restaurant  *models.Restaurant
}

func newStubRegisterUserRepo() *stubRegisterUserRepo {
	return &stubRegisterUserRepo{byEmail: map[string]*models.User{}}
}

func (r *stubRegisterUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRegisterUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	r.byEmail[user.Email] = user
	r.createdUser = user
	return user, nil
}

func (r *stubRegisterUserRepo) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	restaurant.ID = uuid.New()
	r.restaurant = restaurant
	return restaurant, nil
}

type stubSupplierRepo struct {
	supplier *models.SupplierAccount
}

func (r *stubSupplierRepo) CreateSupplier(ctx context.Context, supplier *models.SupplierAccount) (*models.SupplierAccount, error) {
	supplier.ID = uuid.New()
	r.supplier = supplier
	return supplier, nil
}

type registerTestSetup struct {
	service      RegisterService
	userRepo     *stubRegisterUserRepo
	supplierRepo *stubSupplierRepo
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()

	userRepo := newStubRegisterUserRepo()
	supplierRepo := &stubSupplierRepo{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		SupplierRepoFactory: func(tx *gorm.DB) registerSupplierRepository {
			return supplierRepo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, userRepo: userRepo, supplierRepo: supplierRepo}
}

func TestRegisterCustomerCreatesUserAndRestaurant(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		FirstName:      "Greta",
		LastName:       "Gastro",
		Email:          "Greta@Gasthaus.DE",
		Password:       "Geheim123!",
		RestaurantName: "Gasthaus Alpenblick",
	})
	if err != nil {
		t.Fatalf("register customer: %v", err)
	}

	user := setup.userRepo.createdUser
	if user == nil {
		t.Fatal("expected user to be created")
	}
	if user.Email != "greta@gasthaus.de" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "Geheim123!" {
		t.Fatal("password must be stored hashed")
	}

	restaurant := setup.userRepo.restaurant
	if restaurant == nil {
		t.Fatal("expected restaurant to be created")
	}
	if restaurant.OwnerUserID != user.ID {
		t.Fatal("restaurant not linked to created user")
	}
}

func TestRegisterSupplierCreatesAccount(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.RegisterSupplier(context.Background(), RegisterSupplierRequest{
		FirstName:           "Sven",
		LastName:            "Sortiment",
		Email:               "chef@frischdienst.de",
		Password:            "Geheim123!",
		CompanyName:         "Frischdienst Nord",
		MinOrderAmountCents: 5000,
	})
	if err != nil {
		t.Fatalf("register supplier: %v", err)
	}

	user := setup.userRepo.createdUser
	if user == nil || user.Role != enums.UserRoleSupplier {
		t.Fatalf("expected supplier user, got %+v", user)
	}
	supplier := setup.supplierRepo.supplier
	if supplier == nil {
		t.Fatal("expected supplier account to be created")
	}
	if supplier.OwnerUserID != user.ID {
		t.Fatal("supplier account not linked to created user")
	}
	if supplier.MinOrderAmountCents != 5000 {
		t.Fatalf("min order amount lost: %d", supplier.MinOrderAmountCents)
	}
	if !supplier.IsActive {
		t.Fatal("new supplier accounts start active")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.byEmail["greta@gasthaus.de"] = &models.User{ID: uuid.New(), Email: "greta@gasthaus.de"}

	err := setup.service.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		FirstName:      "Greta",
		LastName:       "Gastro",
		Email:          "greta@gasthaus.de",
		Password:       "Geheim123!",
		RestaurantName: "Gasthaus Alpenblick",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.RegisterCustomer(context.Background(), RegisterCustomerRequest{
		Email: "keine-mail", Password: "Geheim123!", RestaurantName: "X",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION for bad email, got %v", err)
	}

	err = setup.service.RegisterSupplier(context.Background(), RegisterSupplierRequest{
		Email: "a@b.de", Password: "Geheim123!", CompanyName: "  ",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION for blank company, got %v", err)
	}
}
