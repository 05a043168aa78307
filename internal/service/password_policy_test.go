package service

import (
	"errors"
	"testing"

	"github.com/loyalty-next/internal/config"
)

func TestValidatePasswordDetailKeys(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	cases := []struct {
		name     string
		password string
		wantKey  string
	}{
		{name: "too short", password: "Ab1!", wantKey: "error.password_min_length"},
		{name: "no upper", password: "password1!", wantKey: "error.password_require_upper"},
		{name: "no lower", password: "PASSWORD1!", wantKey: "error.password_require_lower"},
		{name: "no number", password: "Password!!", wantKey: "error.password_require_number"},
		{name: "no special", password: "Password11", wantKey: "error.password_require_special"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword, got %v", err)
			}
			key, _ := PasswordPolicyDetail(err)
			if key != tc.wantKey {
				t.Fatalf("key want %s got %s", tc.wantKey, key)
			}
		})
	}
}

func TestPasswordPolicyDetailMinLengthArgs(t *testing.T) {
	err := validatePassword(config.PasswordPolicyConfig{MinLength: 10}, "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	key, args := PasswordPolicyDetail(err)
	if key != "error.password_min_length" {
		t.Fatalf("key want error.password_min_length got %s", key)
	}
	if len(args) != 1 || args[0] != 10 {
		t.Fatalf("args want [10] got %v", args)
	}
}

func TestPasswordPolicyDetailFallback(t *testing.T) {
	key, args := PasswordPolicyDetail(ErrWeakPassword)
	if key != "error.password_policy" {
		t.Fatalf("key want error.password_policy got %s", key)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestValidatePasswordEmptyPolicySkipsChecks(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, ""); err != nil {
		t.Fatalf("expected empty policy to accept any password, got %v", err)
	}
}
