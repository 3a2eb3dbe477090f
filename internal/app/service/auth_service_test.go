package service

import (
	"testing"
	"time"

	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/ovenlab/bakehouse-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	svc := NewAuthService(
		repository.NewUserRepository(testDB),
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	return testDB, svc
}

func TestAuthService_Register(t *testing.T) {
	testDB, svc := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	user, tokens, err := svc.Register("baker@example.com", "password123", "Head Baker", "555-0101")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "baker@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	testDB, svc := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register("baker@example.com", "password123", "Head Baker", "")
	require.NoError(t, err)

	_, _, err = svc.Register("baker@example.com", "different456", "Other Baker", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register("baker@example.com", "password123", "Head Baker", "")
	require.NoError(t, err)

	user, tokens, err := svc.Login("baker@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "baker@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	testDB, svc := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register("baker@example.com", "password123", "Head Baker", "")
	require.NoError(t, err)

	_, _, err = svc.Login("baker@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	testDB, svc := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	user, _, err := svc.Register("baker@example.com", "password123", "Head Baker", "")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, "Pastry Chef", "555-0202")
	require.NoError(t, err)
	assert.Equal(t, "Pastry Chef", updated.Name)
	assert.Equal(t, "555-0202", updated.Phone)

	// Empty fields leave the profile untouched.
	same, err := svc.UpdateProfile(user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Pastry Chef", same.Name)
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	testDB, svc := setupAuthService(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
