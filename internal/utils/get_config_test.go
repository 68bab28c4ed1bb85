package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: \"9000\"\nMODEL_NAME: resnet\nJWT_SECRET: from-yaml\n"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	require.NoError(t, LoadConfigFrom(path))

	assert.Equal(t, "9000", GetConfig("APP_PORT"))
	assert.Equal(t, "resnet", GetConfig("MODEL_NAME"))
	assert.Equal(t, "from-env", GetConfig("JWT_SECRET"))
	assert.Equal(t, "sqlite", GetConfig("DB_DRIVER"))
	assert.Equal(t, "", GetConfig("NOT_A_KEY"))
}

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MODEL_URL", "http://model:8000")

	require.NoError(t, LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml")))

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "http://model:8000", GetConfig("MODEL_URL"))
	assert.Equal(t, "ABBREV.xlsx", GetConfig("NUTRITION_TABLE_PATH"))
}

func TestLoadConfigFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: [unterminated"), 0o600))

	assert.Error(t, LoadConfigFrom(path))
	assert.Equal(t, "8080", GetConfig("APP_PORT"))
}
