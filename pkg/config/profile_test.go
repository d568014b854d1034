package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGarageProfileMissingFile(t *testing.T) {
	p := LoadGarageProfile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Equal(t, DefaultGarageProfile(), p)
}

func TestLoadGarageProfileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garage.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[garage]
name = "Speed Motors"
phone = "020 1234 5678"
`), 0o600))

	p := LoadGarageProfile(path)
	assert.Equal(t, "Speed Motors", p.Name)
	assert.Equal(t, "020 1234 5678", p.Phone)
	assert.Equal(t, DefaultGarageProfile().Address, p.Address)
	assert.Len(t, p.Terms, 4)
}
