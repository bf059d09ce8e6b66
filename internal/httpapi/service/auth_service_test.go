package service

import (
	"testing"
	"time"

	"shelfhub/internal/config"
	"shelfhub/internal/httpapi/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Recent(limit int) ([]models.User, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func newAuthFixture() (*MockUserRepository, *MockRefreshTokenRepository, AuthService) {
	users := new(MockUserRepository)
	tokens := new(MockRefreshTokenRepository)
	cfg := &config.Config{
		JWTSecret:       "test-secret-key-that-is-long-enough!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	return users, tokens, NewAuthService(users, tokens, cfg)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthRegister_AlwaysStudent(t *testing.T) {
	users, _, svc := newAuthFixture()

	users.On("FindByUsername", "newkid").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	grade := "10B"
	user, err := svc.Register("newkid", "password123", "New Kid", &grade)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "10B", *user.Grade)
	// The stored password is a bcrypt hash, never the plaintext
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	users.AssertExpectations(t)
}

func TestAuthRegister_UsernameTaken(t *testing.T) {
	users, _, svc := newAuthFixture()

	users.On("FindByUsername", "admin").Return(&models.User{Username: "admin"}, nil)

	_, err := svc.Register("admin", "password123", "Impostor", nil)

	assert.ErrorIs(t, err, ErrNameInUse)
	users.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthLogin_Success(t *testing.T) {
	users, tokens, svc := newAuthFixture()

	user := &models.User{
		ID:       "user-1",
		Username: "msmith",
		Password: hashOf(t, "chalkdust42"),
		Role:     models.RoleTeacher,
	}
	users.On("FindByUsername", "msmith").Return(user, nil)
	tokens.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, loggedIn, err := svc.Login("msmith", "chalkdust42")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "user-1", loggedIn.ID)

	// The access token carries the role claim
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (any, error) {
		return []byte("test-secret-key-that-is-long-enough!"), nil
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	users, _, svc := newAuthFixture()

	user := &models.User{
		ID:       "user-1",
		Username: "msmith",
		Password: hashOf(t, "chalkdust42"),
	}
	users.On("FindByUsername", "msmith").Return(user, nil)

	_, _, _, err := svc.Login("msmith", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLogin_UnknownUser(t *testing.T) {
	users, _, svc := newAuthFixture()

	users.On("FindByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := svc.Login("ghost", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRefresh_RoleChangeTakesEffect(t *testing.T) {
	users, tokens, svc := newAuthFixture()

	tokens.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	// The user was promoted since the refresh token was issued
	users.On("FindByID", "user-1").Return(&models.User{
		ID:       "user-1",
		Username: "msmith",
		Role:     models.RoleLibrarian,
	}, nil)

	accessToken, err := svc.RefreshAccessToken("refresh-1")
	assert.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (any, error) {
		return []byte("test-secret-key-that-is-long-enough!"), nil
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleLibrarian, claims.Role)
}

func TestAuthRefresh_Revoked(t *testing.T) {
	_, tokens, svc := newAuthFixture()

	tokens.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}, nil)

	_, err := svc.RefreshAccessToken("refresh-1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRefresh_Expired(t *testing.T) {
	_, tokens, svc := newAuthFixture()

	tokens.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	_, err := svc.RefreshAccessToken("refresh-1")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthValidateToken_RoundTrip(t *testing.T) {
	users, tokens, svc := newAuthFixture()

	user := &models.User{
		ID:       "user-1",
		Username: "msmith",
		Password: hashOf(t, "chalkdust42"),
		Role:     models.RoleTeacher,
	}
	users.On("FindByUsername", "msmith").Return(user, nil)
	tokens.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, _, _, err := svc.Login("msmith", "chalkdust42")
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthValidateToken_Garbage(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRevokeToken_UnknownIsSilent(t *testing.T) {
	_, tokens, svc := newAuthFixture()

	tokens.On("FindByToken", "unknown").Return(nil, gorm.ErrRecordNotFound)

	assert.NoError(t, svc.RevokeToken("unknown"))
	tokens.AssertNotCalled(t, "Revoke", mock.Anything)
}
