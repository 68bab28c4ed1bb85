package user

import (
	"context"
	"errors"
	"strings"

	"food-recognizer/domain"
	"food-recognizer/entities"
	"food-recognizer/pkg/jwt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUser(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	// WelcomeSender delivers the post-registration mail.
	WelcomeSender func(toEmail, username string) error

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		sendWelcome    WelcomeSender
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, sendWelcome WelcomeSender) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		sendWelcome:    sendWelcome,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)

	exists, err := s.userRepository.CheckUsername(ctx, username)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if exists {
		return domain.RegisterResponse{}, domain.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hashed),
		Role:     domain.RoleUser,
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	if user.Email != "" && s.sendWelcome != nil {
		go func(email, name string) {
			if err := s.sendWelcome(email, name); err != nil {
				log.Warnf("welcome mail to %s: %v", email, err)
			}
		}(user.Email, user.Username)
	}

	return domain.RegisterResponse{
		UserID:   user.ID.String(),
		Username: user.Username,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	return domain.LoginResponse{
		UserID: user.ID.String(),
		Token:  s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (domain.UserResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.UserResponse{}, domain.ErrParseUUID
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	return domain.UserResponse{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
