package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"studenthub/internal/auth"
	apperrors "studenthub/internal/errors"
	"studenthub/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockRefreshTokenStore is a mock implementation of auth.RefreshTokenStore.
type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Store(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockRefreshTokenStore) Get(ctx context.Context, tokenID string) (uint, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockRefreshTokenStore) Delete(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestAuthService(users *MockUserRepository, store *MockRefreshTokenStore) AuthService {
	hasher := auth.NewPasswordHasher(4)
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(users, hasher, jwtService, store)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "test@example.com",
			password:  "password123",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:      "email is normalized to lowercase",
			email:     "  MiXeD@Example.COM ",
			password:  "password123",
			nameField: "Mixed Case",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "mixed@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:      "email already registered",
			email:     "existing@example.com",
			password:  "password123",
			nameField: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockRefreshTokenStore))
			user, err := service.Register(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.nameField, user.Name)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotContains(t, user.PasswordHash, tt.password)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)
	hash, _ := hasher.Hash("password123")

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockRefreshTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mStore *MockRefreshTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           42,
					Email:        "test@example.com",
					PasswordHash: hash,
				}, nil)
				mStore.On("Store", mock.Anything, mock.Anything, uint(42), auth.RefreshTokenExpiry).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mStore *MockRefreshTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(mRepo *MockUserRepository, mStore *MockRefreshTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           42,
					Email:        "test@example.com",
					PasswordHash: hash,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockStore := new(MockRefreshTokenStore)
			tt.setupMock(mockRepo, mockStore)

			service := newTestAuthService(mockRepo, mockStore)
			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginResolvesBackToSameIdentity(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)
	hash, _ := hasher.Hash("password123")

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
		ID:           42,
		Email:        "test@example.com",
		PasswordHash: hash,
	}, nil)
	mockStore := new(MockRefreshTokenStore)
	mockStore.On("Store", mock.Anything, mock.Anything, uint(42), mock.Anything).Return(nil)

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	service := NewAuthService(mockRepo, hasher, jwtService, mockStore)

	accessToken, _, _, err := service.Login(context.Background(), "test@example.com", "password123")
	assert.NoError(t, err)

	subject, err := jwtService.Verify(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), subject)
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	hasher := auth.NewPasswordHasher(4)

	tokenID, refreshToken, err := jwtService.IssueRefresh(42)
	assert.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockRefreshTokenStore)
		expectedError error
	}{
		{
			name:  "valid refresh token",
			token: refreshToken,
			setupMock: func(m *MockRefreshTokenStore) {
				m.On("Get", mock.Anything, tokenID).Return(uint(42), nil)
			},
			expectedError: nil,
		},
		{
			name:  "revoked refresh token",
			token: refreshToken,
			setupMock: func(m *MockRefreshTokenStore) {
				m.On("Get", mock.Anything, tokenID).Return(uint(0), assert.AnError)
			},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
		{
			name:          "malformed refresh token",
			token:         "garbage",
			setupMock:     func(m *MockRefreshTokenStore) {},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockRefreshTokenStore)
			tt.setupMock(mockStore)

			service := NewAuthService(new(MockUserRepository), hasher, jwtService, mockStore)
			accessToken, err := service.Refresh(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
			} else {
				assert.NoError(t, err)
				subject, err := jwtService.Verify(accessToken)
				assert.NoError(t, err)
				assert.Equal(t, uint(42), subject)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	hasher := auth.NewPasswordHasher(4)

	tokenID, refreshToken, err := jwtService.IssueRefresh(42)
	assert.NoError(t, err)

	mockStore := new(MockRefreshTokenStore)
	mockStore.On("Delete", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockUserRepository), hasher, jwtService, mockStore)

	assert.NoError(t, service.Logout(context.Background(), refreshToken))
	assert.ErrorIs(t, service.Logout(context.Background(), "garbage"), apperrors.ErrInvalidRefreshToken)

	mockStore.AssertExpectations(t)
}
