package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/khaisazumma/rebooku-sub000/internal/config"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBClient_SQLiteMigrates(t *testing.T) {
	db, err := InitDBClient(config.Database{Driver: "sqlite", URL: filepath.Join(t.TempDir(), "rebooku.db")})
	require.NoError(t, err)

	for _, table := range []any{&model.Book{}, &model.PromoCode{}, &model.Transaction{}, &model.TransactionItem{}, &model.CartItem{}, &model.Review{}} {
		assert.True(t, db.Migrator().HasTable(table), "%T", table)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestInitDBClient_UnknownDriver(t *testing.T) {
	_, err := InitDBClient(config.Database{Driver: "oracle", URL: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInitRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	rdb, err := InitRedisClient(context.Background(), config.Redis{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	mr.Close()
	_, err = InitRedisClient(context.Background(), config.Redis{Addr: addr})
	assert.Error(t, err)
}
