package domain

import (
	"errors"
)

var (
	MessageSuccessRegister = "user registered"
	MessageSuccessLogin    = "login successful"
	MessageSuccessGetUser  = "user retrieved successfully"

	MessageFailedRegister = "failed to register user"
	MessageFailedLogin    = "invalid credentials"
	MessageFailedGetUser  = "failed to retrieve user"

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required,min=3,max=64"`
		Password string `json:"password" validate:"required,min=6"`
		Email    string `json:"email" validate:"omitempty,email"`
	}

	RegisterResponse struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}

	UserResponse struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email,omitempty"`
	}
)
