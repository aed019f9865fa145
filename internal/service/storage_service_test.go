package service

import (
	"clever_backend/internal/config"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: dir}}
	svc := NewStorageService(cfg)
	ctx := context.Background()

	url, err := svc.Upload(ctx, "questions/a.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/questions/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "questions", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	require.NoError(t, svc.Delete(ctx, "questions/a.png"))
	_, err = os.Stat(filepath.Join(dir, "questions", "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestStorageFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Type: "minio", MinioEndpoint: "", LocalPath: t.TempDir()}}
	svc := NewStorageService(cfg)
	_, ok := svc.Provider.(*LocalStorageProvider)
	assert.True(t, ok)
}
