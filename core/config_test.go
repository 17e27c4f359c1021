package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{"ENV": ""},
			want: Config{
				Env: "DEV", Build: "dev", AppName: "EduPlatform", Debug: true,
				ExportDir: ".", ExportLog: "export_log.txt",
				Admin: AdminConfig{Name: "Administrator", Email: "admin@eduplatform.local", Password: "admin"},
			},
		},
		{
			name: "test env with overrides",
			env: map[string]string{
				"ENV":                 "test",
				"TEST_EXPORTDIR":      "/tmp/exports",
				"TEST_ADMIN_PASSWORD": "s3cret",
				"TEST_ROLLBARTOKEN":   "tok",
			},
			want: Config{
				Env: "TEST", Build: "dev", AppName: "EduPlatform", Debug: true, TestMode: true,
				ExportDir: "/tmp/exports", ExportLog: "export_log.txt", RollbarToken: "tok",
				Admin: AdminConfig{Name: "Administrator", Email: "admin@eduplatform.local", Password: "s3cret"},
			},
		},
		{
			name: "prod disables debug",
			env:  map[string]string{"ENV": "PROD", "PROD_BUILD": "1.2.0"},
			want: Config{
				Env: "PROD", Build: "1.2.0", AppName: "EduPlatform",
				ExportDir: ".", ExportLog: "export_log.txt",
				Admin: AdminConfig{Name: "Administrator", Email: "admin@eduplatform.local", Password: "admin"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			conf, err := LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, *conf)
		})
	}
}
