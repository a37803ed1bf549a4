package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("should open an in-memory sqlite database", func(t *testing.T) {
		req := require.New(t)

		db, err := New(&Config{Driver: "sqlite", FilePath: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
		req.NoError(err)

		sqlDB, err := db.DB()
		req.NoError(err)
		req.NoError(sqlDB.Ping())
		req.NoError(sqlDB.Close())
	})

	t.Run("should reject unknown drivers", func(t *testing.T) {
		req := require.New(t)

		_, err := New(&Config{Driver: "oracle"})
		req.ErrorContains(err, "unsupported database driver")
	})
}

func TestParseLogLevel(t *testing.T) {
	req := require.New(t)

	req.Equal(logger.Silent, parseLogLevel("silent"))
	req.Equal(logger.Error, parseLogLevel(" ERROR "))
	req.Equal(logger.Info, parseLogLevel("info"))
	req.Equal(logger.Warn, parseLogLevel(""))
	req.Equal(logger.Warn, parseLogLevel("verbose"))
}
