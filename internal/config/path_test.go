package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain path untouched", "/var/lib/billfold.db", "/var/lib/billfold.db"},
		{"tilde prefix", "~/data/billfold.db", filepath.Join(home, "data", "billfold.db")},
		{"bare tilde", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("BILLFOLD_TEST_DIR", "/tmp/billfold")
		assert.Equal(t, "/tmp/billfold/x.db", ExpandPath("$BILLFOLD_TEST_DIR/x.db"))
	})
}

func TestDatabasePath(t *testing.T) {
	t.Run("config key wins", func(t *testing.T) {
		viper.Set("db.path", "/tmp/custom.db")
		defer viper.Reset()

		assert.Equal(t, "/tmp/custom.db", DatabasePath())
	})

	t.Run("defaults under the home data directory", func(t *testing.T) {
		viper.Reset()

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".local", "share", "billfold", "billfold.db"), DatabasePath())
	})
}
