package auth

import (
	"github.com/mlindenberg/gastlink-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is returned by a successful refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterCustomerRequest onboards a gastronome with their restaurant profile.
type RegisterCustomerRequest struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Phone          *string `json:"phone,omitempty"`
	RestaurantName string  `json:"restaurant_name" validate:"required"`
	Address        *string `json:"address,omitempty"`
}

// RegisterSupplierRequest onboards a wholesale supplier with their account.
type RegisterSupplierRequest struct {
	FirstName           string  `json:"first_name" validate:"required"`
	LastName            string  `json:"last_name" validate:"required"`
	Email               string  `json:"email" validate:"required,email"`
	Password            string  `json:"password" validate:"required,min=8"`
	Phone               *string `json:"phone,omitempty"`
	CompanyName         string  `json:"company_name" validate:"required"`
	Description         *string `json:"description,omitempty"`
	MinOrderAmountCents int     `json:"min_order_amount_cents" validate:"gte=0"`
}
