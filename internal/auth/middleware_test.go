package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"studenthub/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
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

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestResolveIdentity_LoadsUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	user := &model.User{ID: 42, Email: "test@example.com", Name: "Test User"}
	mockRepo.On("FindByID", mock.Anything, uint(42)).Return(user, nil)

	c := testContext()
	c.Set(subjectContextKey, uint(42))

	called := false
	next := func(c echo.Context) error {
		called = true
		resolved, err := CurrentUser(c)
		assert.NoError(t, err)
		assert.Equal(t, user, resolved)
		return nil
	}

	err := ResolveIdentity(mockRepo)(next)(c)
	assert.NoError(t, err)
	assert.True(t, called)
	mockRepo.AssertExpectations(t)
}

func TestResolveIdentity_DeletedUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

	c := testContext()
	c.Set(subjectContextKey, uint(42))

	next := func(c echo.Context) error {
		t.Fatal("next should not run for a deleted user")
		return nil
	}

	err := ResolveIdentity(mockRepo)(next)(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestResolveIdentity_MissingSubject(t *testing.T) {
	mockRepo := new(MockUserRepository)

	c := testContext()

	err := ResolveIdentity(mockRepo)(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestParseToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, err := svc.Issue(42)
	assert.NoError(t, err)

	parse := ParseToken(svc)
	c := testContext()

	got, err := parse(c, token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), got)

	_, err = parse(c, "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCurrentUser_Missing(t *testing.T) {
	c := testContext()
	_, err := CurrentUser(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
