package config

import (
	"os"
	"testing"
	"time"
)

func TestPasswordPolicyValidate(t *testing.T) {
	policy := PasswordPolicy{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
		RequireSpecial:   true,
	}

	if err := policy.Validate("Aa1!aaa"); err == nil {
		t.Fatalf("expected error for 7-char password")
	}
	if err := policy.Validate("Aa1!aaaa"); err != nil {
		t.Fatalf("expected 8-char password with all classes to pass, got %v", err)
	}
	if err := policy.Validate("alllowercase1!"); err == nil {
		t.Fatalf("expected error for missing uppercase")
	}
	if err := policy.Validate("UPPERCASE1!"); err == nil {
		t.Fatalf("expected error for missing lowercase")
	}
	if err := policy.Validate("NoNumber!"); err == nil {
		t.Fatalf("expected error for missing number")
	}
	if err := policy.Validate("NoSpecial1"); err == nil {
		t.Fatalf("expected error for missing special")
	}
	if err := policy.Validate("Str0ng!Pass"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}

func TestPasswordPolicyValidateOrder(t *testing.T) {
	policy := PasswordPolicy{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
		RequireSpecial:   true,
	}

	// A password violating several rules reports the first check's message.
	err := policy.Validate("abc")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "password must be at least 8 characters long" {
		t.Fatalf("expected length violation first, got %q", err.Error())
	}

	err = policy.Validate("aaaaaaaa")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "password must contain at least one uppercase letter" {
		t.Fatalf("expected uppercase violation first, got %q", err.Error())
	}
}

func TestPasswordPolicyMaxLength(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8, MaxLength: 128}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if err := policy.Validate(string(long)); err == nil {
		t.Fatalf("expected error for 129-char password")
	}
	if err := policy.Validate(string(long[:128])); err != nil {
		t.Fatalf("expected 128-char password to pass, got %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnv("TEST_STRING", "default"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := getEnv("MISSING_STRING", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("TEST_DURATION", "30")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}
	t.Setenv("TEST_DURATION", "invalid")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 5*time.Minute {
		t.Fatalf("expected default duration, got %v", got)
	}

	t.Setenv("TEST_BOOL", "true")
	if got := getBoolEnv("TEST_BOOL", false); got != true {
		t.Fatalf("expected true, got %v", got)
	}

	t.Setenv("TEST_INT", "42")
	if got := getIntEnv("TEST_INT", 5); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestLoadRequiresAccessSecret(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("MYSQL_DSN", "")
	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when JWT_ACCESS_SECRET is missing")
	}
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "")
	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when MYSQL_DSN is missing")
	}
}

func TestRefreshSecretFallback(t *testing.T) {
	cfg := &Config{JWTAccessSecret: "primary"}
	if got := cfg.RefreshSecret(); got != "primary" {
		t.Fatalf("expected fallback to access secret, got %q", got)
	}

	cfg.JWTRefreshSecret = "secondary"
	if got := cfg.RefreshSecret(); got != "secondary" {
		t.Fatalf("expected dedicated refresh secret, got %q", got)
	}
}
