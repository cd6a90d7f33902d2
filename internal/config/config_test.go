package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"JTD_DEFAULT_NUMBER_TYPE", "JTD_WORKERS", "HTTP_ADDR", "LOG_FORMAT", "LOG_COMPRESS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.DefaultNumberType)
	assert.Equal(t, DefaultWorkersValue, cfg.Workers)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JTD_DEFAULT_NUMBER_TYPE", "int32")
	t.Setenv("JTD_WORKERS", "12")
	t.Setenv("MAX_DOCUMENTS", "not-a-number")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.Equal(t, "int32", cfg.DefaultNumberType)
	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, MaxDocumentsValue, cfg.MaxDocuments)
	assert.False(t, cfg.LogCompress)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"yes", false, true},
		{"0", true, false},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.val)
			assert.Equal(t, tt.want, getEnvBool("TEST_BOOL", tt.def))
		})
	}
}
