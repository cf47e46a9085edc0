package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_AuthUsers(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Users = []AuthUser{{Token: "t1", Principal: "alice", Role: "admin"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Auth.Users = []AuthUser{{Token: "t1", Principal: "alice", Role: "owner"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown role")
	}

	cfg.Auth.Users = []AuthUser{{Token: "", Principal: "alice", Role: "user"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Storage.KeyPrefix != "taskdesk:" {
		t.Errorf("expected KeyPrefix=taskdesk:, got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Storage.MaxBlobSize != 10<<20 {
		t.Errorf("expected MaxBlobSize=10MiB, got %d", cfg.Storage.MaxBlobSize)
	}
	if cfg.Tasks.AtRiskWindowMin != 240 {
		t.Errorf("expected AtRiskWindowMin=240, got %d", cfg.Tasks.AtRiskWindowMin)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TD_TEST_PASSWORD", "sekret")

	got := string(expandEnvVars([]byte("password: ${TD_TEST_PASSWORD}\nprefix: ${TD_MISSING:-taskdesk:}")))
	want := "password: sekret\nprefix: taskdesk:"
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}
