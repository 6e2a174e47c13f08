package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		cleanup func()
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "load with defaults (no config file)",
			setup: func() {
				// Reset viper
				viper.Reset()
			},
			cleanup: func() {},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 8080 {
					t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
				}
				if cfg.Database.Host != "localhost" {
					t.Errorf("Database.Host = %s, want localhost", cfg.Database.Host)
				}
				if cfg.Database.Name != "portfolio" {
					t.Errorf("Database.Name = %s, want portfolio", cfg.Database.Name)
				}
				if cfg.RabbitMQ.Exchange != "portfolio.content" {
					t.Errorf("RabbitMQ.Exchange = %s, want portfolio.content", cfg.RabbitMQ.Exchange)
				}
				if cfg.Upload.Bucket != "thumbnails" {
					t.Errorf("Upload.Bucket = %s, want thumbnails", cfg.Upload.Bucket)
				}
				if cfg.Upload.MaxSize != 5242880 {
					t.Errorf("Upload.MaxSize = %d, want 5242880", cfg.Upload.MaxSize)
				}
				if cfg.Auth.TokenTTL != 7*24*time.Hour {
					t.Errorf("Auth.TokenTTL = %v, want 168h", cfg.Auth.TokenTTL)
				}
			},
		},
		{
			name: "load with environment variables",
			setup: func() {
				viper.Reset()
				viper.SetEnvPrefix("APP")
				viper.AutomaticEnv()
				os.Setenv("APP_SERVER_PORT", "9090")
				os.Setenv("APP_DATABASE_HOST", "testdb")
				os.Setenv("APP_AUTH_JWTSECRET", "test-secret")
				os.Setenv("APP_UPLOAD_BUCKET", "test-bucket")
				// Manually bind env vars since AutomaticEnv doesn't work with nested keys
				viper.BindEnv("server.port", "APP_SERVER_PORT")
				viper.BindEnv("database.host", "APP_DATABASE_HOST")
				viper.BindEnv("auth.jwtsecret", "APP_AUTH_JWTSECRET")
				viper.BindEnv("upload.bucket", "APP_UPLOAD_BUCKET")
			},
			cleanup: func() {
				os.Unsetenv("APP_SERVER_PORT")
				os.Unsetenv("APP_DATABASE_HOST")
				os.Unsetenv("APP_AUTH_JWTSECRET")
				os.Unsetenv("APP_UPLOAD_BUCKET")
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 9090 {
					t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
				}
				if cfg.Database.Host != "testdb" {
					t.Errorf("Database.Host = %s, want testdb", cfg.Database.Host)
				}
				if cfg.Auth.JWTSecret != "test-secret" {
					t.Errorf("Auth.JWTSecret = %s, want test-secret", cfg.Auth.JWTSecret)
				}
				if cfg.Upload.Bucket != "test-bucket" {
					t.Errorf("Upload.Bucket = %s, want test-bucket", cfg.Upload.Bucket)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			defer func() {
				if tt.cleanup != nil {
					tt.cleanup()
				}
			}()

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.check != nil && cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	tests := []struct {
		name string
		key  string
		want interface{}
	}{
		{"server port", "server.port", 8080},
		{"database host", "database.host", "localhost"},
		{"database port", "database.port", 5432},
		{"database name", "database.name", "portfolio"},
		{"database user", "database.user", "postgres"},
		{"database maxconnections", "database.maxconnections", 10},
		{"database minconnections", "database.minconnections", 5},
		{"rabbitmq host", "rabbitmq.host", "localhost"},
		{"rabbitmq port", "rabbitmq.port", 5672},
		{"rabbitmq user", "rabbitmq.user", "guest"},
		{"rabbitmq exchange", "rabbitmq.exchange", "portfolio.content"},
		{"rabbitmq queue", "rabbitmq.queue", "portfolio.content.refresh"},
		{"rabbitmq routingkey", "rabbitmq.routingkey", "content.changed"},
		{"upload endpoint", "upload.endpoint", "localhost:9000"},
		{"upload bucket", "upload.bucket", "thumbnails"},
		{"upload usessl", "upload.usessl", false},
		{"upload maxsize", "upload.maxsize", 5242880},
		{"redis url", "redis.url", ""},
		{"logging level", "logging.level", "info"},
		{"logging file", "logging.file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viper.Get(tt.key)
			if got != tt.want {
				t.Errorf("viper.Get(%s) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	// Test time.Duration defaults
	if viper.GetDuration("server.shutdowntimeout") != 30*time.Second {
		t.Errorf("server.shutdowntimeout = %v, want 30s", viper.GetDuration("server.shutdowntimeout"))
	}
	if viper.GetDuration("auth.tokenttl") != 7*24*time.Hour {
		t.Errorf("auth.tokenttl = %v, want 168h", viper.GetDuration("auth.tokenttl"))
	}
}
