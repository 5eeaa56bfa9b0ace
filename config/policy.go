package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OTPPolicy holds the tunable OTP challenge parameters.
type OTPPolicy struct {
	CodeLength    int `yaml:"code_length"`
	ExpiryMinutes int `yaml:"expiry_minutes"`
	MaxAttempts   int `yaml:"max_attempts"`
}

func DefaultOTPPolicy() OTPPolicy {
	return OTPPolicy{
		CodeLength:    6,
		ExpiryMinutes: 5,
		MaxAttempts:   3,
	}
}

// LoadOTPPolicy reads an overriding policy file if path is non-empty.
// Missing or zero-valued fields keep their defaults; an unreadable file is
// fatal rather than silently falling back.
func LoadOTPPolicy(path string) OTPPolicy {
	policy := DefaultOTPPolicy()
	if path == "" {
		return policy
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read OTP policy file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		log.Fatalf("Failed to parse OTP policy file %s: %v", path, err)
	}

	defaults := DefaultOTPPolicy()
	if policy.CodeLength <= 0 {
		policy.CodeLength = defaults.CodeLength
	}
	if policy.ExpiryMinutes <= 0 {
		policy.ExpiryMinutes = defaults.ExpiryMinutes
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaults.MaxAttempts
	}

	return policy
}

func (p OTPPolicy) Expiry() time.Duration {
	return time.Duration(p.ExpiryMinutes) * time.Minute
}
