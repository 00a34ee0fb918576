package services

import (
	"fmt"
	"time"

	"snappy/auth"
	"snappy/domain"
	"snappy/errors"
	"snappy/repositories"
)

type IAuthService interface {
	Register(username, email, password string) (Token, domain.User, error)
	Login(username, password string) (Token, domain.User, error)
}

type Token string

type AuthService struct {
	users         repositories.IUserRepository
	tokenDuration time.Duration
}

func NewAuthService(users repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{users: users, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(username, email, password string) (Token, domain.User, error) {
	valReq := auth.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}
	// Validation runs before any expensive cryptographic work.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", domain.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens here so the repository never sees plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.users.CreateUser(username, email, hashedPassword)
	if err != nil {
		return "", domain.User{}, err // propagates ErrUserAlreadyExists / ErrEmailAlreadyExists
	}

	token, err := auth.GenerateToken(userID, username, s.tokenDuration)
	if err != nil {
		return "", domain.User{}, errors.ErrTokenGeneration
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return "", domain.User{}, err
	}
	return Token(token), user, nil
}

func (s *AuthService) Login(username, password string) (Token, domain.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		// Generic error to prevent user enumeration.
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.tokenDuration)
	if err != nil {
		return "", domain.User{}, errors.ErrTokenGeneration
	}
	return Token(token), user, nil
}
