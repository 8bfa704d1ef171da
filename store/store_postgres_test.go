package store

import (
	"context"
	"os"
	"testing"

	"khaata/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
func TestPostgresUniqueViolation(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" || os.Getenv("DB_DSN") == "" {
		t.Skip("postgres tests are disabled; set DB_DSN_TEST=1 and DB_DSN to enable")
	}
	gdb, err := gorm.Open(postgres.Open(os.Getenv("DB_DSN")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := New(gdb)
	require.NoError(t, s.Migrate())
	ctx := context.Background()
	_, err = s.DeleteAllUsers(ctx)
	require.NoError(t, err)

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "pg", Password: []byte("x")}))
	err = s.CreateUser(ctx, &models.User{Username: "pg", Password: []byte("y")})
	assert.ErrorIs(t, err, ErrUserExists)

	require.NoError(t, s.AppendHisaab(ctx, "pg", &models.Hisaab{Amount: "10", Passcode: models.DefaultPasscode}))
	u, err := s.FindUser(ctx, "pg")
	require.NoError(t, err)
	assert.Len(t, u.Hisaabs, 1)
}
