package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9000"
jwt:
  secret: dev
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 60.0, cfg.Quiz.PassThreshold)
	assert.False(t, cfg.Quiz.StrictAuthoring)
	assert.Equal(t, 60, cfg.Redis.CatalogTTLMinutes)
}

func TestLoadConfig_QuizSection(t *testing.T) {
	dir := writeConfig(t, `
storage:
  type: minio
quiz:
  pass_threshold: 75
  strict_authoring: true
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Quiz.PassThreshold)
	assert.True(t, cfg.Quiz.StrictAuthoring)
}

func TestLoadConfig_Rejects(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  type: minio
`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `
storage:
  type: minio
quiz:
  pass_threshold: 140
`))
	assert.Error(t, err)
}
