package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		JWTSecret:          "secret",
		TokenTTL:           time.Hour,
		Environment:        "development",
		Timezone:           "Asia/Kolkata",
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid development config", mutate: func(*Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "production without database", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "production with database", mutate: func(c *Config) {
			c.Environment = "production"
			c.DatabaseURL = "postgres://localhost/portal"
		}},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "tiny body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = 0 }, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")
	got := getEnvList("CORS_ORIGINS", []string{"*"})
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", got)
	}

	t.Setenv("CORS_ORIGINS", "")
	if got := getEnvList("CORS_ORIGINS", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected fallback, got %v", got)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Nowhere/Land"}
	if cfg.Location() != time.UTC {
		t.Fatal("expected UTC fallback")
	}
}
