package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janakawicks/manageiq/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Empty(t, cfg.Database, "database name must be configured explicitly")
	assert.Empty(t, cfg.Username)
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     6432,
		Database: "live_metrics",
		Username: "collector",
		Password: "secret",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=6432 dbname=live_metrics user=collector password=secret sslmode=require",
		cfg.DSN())
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode errors.ErrorCode
	}{
		{"no rows", sql.ErrNoRows, errors.CodeNotFound},
		{"deadline", context.DeadlineExceeded, errors.CodeDatabaseTimeout},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), errors.CodeCanceled},
		{"unique violation", &pq.Error{Code: "23505"}, errors.CodeConflict},
		{"not null violation", &pq.Error{Code: "23502"}, errors.CodeValidation},
		{"query canceled", &pq.Error{Code: "57014"}, errors.CodeCanceled},
		{"connection failure", &pq.Error{Code: "08006"}, errors.CodeDatabaseConnection},
		{"syntax error", &pq.Error{Code: "42601", Message: "syntax error at or near SELECT"}, errors.CodeDatabaseQuery},
		{"plain error", fmt.Errorf("boom"), errors.CodeDatabaseQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SanitizeError("collect live metric", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))

			var dbErr *errors.DatabaseError
			require.ErrorAs(t, err, &dbErr)
			assert.Equal(t, "collect live metric", dbErr.Operation)
			assert.NotContains(t, dbErr.Message, "SELECT")
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSanitizeErrorNil(t *testing.T) {
	assert.NoError(t, SanitizeError("noop", nil))
}

func TestDBCloseNil(t *testing.T) {
	db := &DB{}
	assert.NoError(t, db.Close())
}
