package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := loadConfig([]string{})
	require.NoError(t, err)

	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.PromoFile)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.False(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 3*time.Second, cfg.Graceful.ReadinessDelay)
	assert.Equal(t, 15*time.Second, cfg.Graceful.ShutdownTimeout)
}

func TestLoadConfig_Sources(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		wantAddr string
		wantDB   string
		wantFile string
	}{
		{
			name:     "prefixed env",
			env:      map[string]string{"STOREFRONT_ADDR": "127.0.0.1:9000", "STOREFRONT_DATABASE_URL": "postgres://a"},
			wantAddr: "127.0.0.1:9000",
			wantDB:   "postgres://a",
		},
		{
			name:     "platform env",
			env:      map[string]string{"PORT": "3000", "DATABASE_URL": "postgres://platform"},
			wantAddr: "0.0.0.0:3000",
			wantDB:   "postgres://platform",
		},
		{
			name:     "prefixed wins over platform",
			env:      map[string]string{"STOREFRONT_ADDR": "127.0.0.1:9000", "PORT": "3000", "STOREFRONT_DATABASE_URL": "postgres://a", "DATABASE_URL": "postgres://b"},
			wantAddr: "127.0.0.1:9000",
			wantDB:   "postgres://a",
		},
		{
			name:     "flags",
			args:     []string{"-promo-file=promos.csv.gz", "-database-url=postgres://flag"},
			wantAddr: defaultAddr,
			wantDB:   "postgres://flag",
			wantFile: "promos.csv.gz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			t.Setenv("DATABASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := tt.args
			if args == nil {
				args = []string{}
			}

			cfg, err := loadConfig(args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, cfg.Addr)
			assert.Equal(t, tt.wantDB, cfg.DatabaseURL)
			assert.Equal(t, tt.wantFile, cfg.PromoFile)
		})
	}
}
