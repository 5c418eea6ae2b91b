package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/config"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/logging"
)

func TestNewMemoryAppAndClose(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = config.DriverMemory
	cfg.Token.Key = "k"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.BaseURL = "/uploads/images"

	a, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, a.Router())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))

	select {
	case <-a.stop:
	default:
		t.Fatal("stop channel still open after Close")
	}
	assert.Nil(t, a.db)
	assert.Nil(t, a.redis)
}
