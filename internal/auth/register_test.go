package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmoralesdev/receiptdesk-backend/internal/profile"
	"github.com/nmoralesdev/receiptdesk-backend/internal/users"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func openRegisterDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)

	err = conn.Exec(`CREATE TABLE businesses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		logo_object TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)

	client, err := db.NewFromConn(conn)
	require.NoError(t, err)
	return client
}

func newRegisterFixture(t *testing.T) (RegisterService, *db.Client) {
	t.Helper()

	client := openRegisterDB(t)
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:     client,
		Hasher: fakeHasher{},
	})
	require.NoError(t, err)
	return svc, client
}

func TestRegisterCreatesUserAndBusiness(t *testing.T) {
	svc, client := newRegisterFixture(t)

	err := svc.Register(context.Background(), RegisterRequest{
		FirstName:    "Nina",
		LastName:     "Morales",
		Email:        "Nina@Example.com",
		Password:     "correct-horse",
		BusinessName: "  Corner Store  ",
	})
	require.NoError(t, err)

	userRepo := users.NewRepository(client.DB())
	user, err := userRepo.FindByEmail(context.Background(), "nina@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hashed:correct-horse", user.PasswordHash)
	assert.True(t, user.IsActive)

	businessRepo := profile.NewRepository(client.DB())
	business, err := businessRepo.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", business.Name)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newRegisterFixture(t)

	req := RegisterRequest{
		FirstName:    "Nina",
		LastName:     "Morales",
		Email:        "nina@example.com",
		Password:     "correct-horse",
		BusinessName: "Corner Store",
	}
	require.NoError(t, svc.Register(context.Background(), req))

	err := svc.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterRequiresEmail(t *testing.T) {
	svc, _ := newRegisterFixture(t)

	err := svc.Register(context.Background(), RegisterRequest{
		FirstName:    "Nina",
		LastName:     "Morales",
		Email:        "   ",
		Password:     "correct-horse",
		BusinessName: "Corner Store",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
