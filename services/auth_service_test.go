package services

import (
	"testing"
	"time"

	"snappy/auth"
	"snappy/domain"
	"snappy/errors"
	"snappy/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		username := "alice42"
		email := "alice@example.com"
		password := "ComplexPass123"
		expectedUserID := "user-uuid"

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateUser(username, email, gomock.Not(password)).
			Return(expectedUserID, nil).
			Times(1)
		mockRepo.EXPECT().
			GetByID(expectedUserID).
			Return(domain.User{ID: expectedUserID, Username: username, Email: email}, nil).
			Times(1)

		token, user, err := svc.Register(username, email, password)

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal(expectedUserID, user.ID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		token, _, err := svc.Register("alice42", "alice@example.com", "simple")

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when username is already taken", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser("alice42", "other@example.com", gomock.Any()).
			Return("", errors.ErrUserAlreadyExists).
			Times(1)

		_, _, err := svc.Register("alice42", "other@example.com", "ComplexPass123")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})

	t.Run("should fail when email is already taken", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser("bob99", "alice@example.com", gomock.Any()).
			Return("", errors.ErrEmailAlreadyExists).
			Times(1)

		_, _, err := svc.Register("bob99", "alice@example.com", "ComplexPass123")

		req.ErrorIs(err, errors.ErrEmailAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		username := "alice42"
		password := "Secret123456"

		hashedPassword, _ := auth.HashPassword(password)
		storedUser := domain.User{
			ID:           "uuid-123",
			Username:     username,
			PasswordHash: hashedPassword,
		}

		mockRepo.EXPECT().GetByUsername(username).Return(storedUser, nil).Times(1)

		token, user, err := svc.Login(username, password)

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal("uuid-123", user.ID)
	})

	t.Run("should fail with wrong password", func(t *testing.T) {
		req := require.New(t)

		hashedPassword, _ := auth.HashPassword("RightPassword1")
		mockRepo.EXPECT().
			GetByUsername("alice42").
			Return(domain.User{ID: "uuid-123", Username: "alice42", PasswordHash: hashedPassword}, nil).
			Times(1)

		_, _, err := svc.Login("alice42", "WrongPassword1")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return the same error for an unknown user", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetByUsername("ghost").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)

		// Generic error to prevent user enumeration
		_, _, err := svc.Login("ghost", "whatever123")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
