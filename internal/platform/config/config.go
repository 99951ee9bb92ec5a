// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development default; production overrides via
// env vars.
package config

import (
	"os"
	"strconv"
	"time"
)

// EnrollmentPolicy decides what happens when an already-enrolled identifier
// enrolls again. The prototype iterations disagreed (one rejected, one
// silently replaced templates), so this is an explicit operator choice.
type EnrollmentPolicy string

const (
	EnrollmentReject  EnrollmentPolicy = "reject"
	EnrollmentReplace EnrollmentPolicy = "replace"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr string

	// Credential signing.
	JWTSigningKey string
	CredentialTTL time.Duration

	// Irreversible handle derivation pepper. Changing it orphans every
	// enrolled identity, so treat it like a signing key.
	HandlePepper string

	// Identity vault policy.
	BiometricTolerance float64
	MinEnrollSamples   int
	EnrollmentPolicy   EnrollmentPolicy

	// One-time passcode policy.
	CodeTTL    time.Duration
	CodeLength int

	// Lockout policy for repeated authentication failures.
	LockoutThreshold int
	LockoutWindow    time.Duration
	LockoutDuration  time.Duration

	// Admin control plane. AdminKeyHash is a bcrypt hash of the bootstrap
	// admin key; the plaintext never lives in config.
	AdminKeyHash string

	// Backing services. Empty values select the in-memory implementations.
	PostgresDSN string
	RedisURL    string

	// Audit pipeline. Empty brokers select the log-only publisher.
	KafkaBrokers    []string
	KafkaAuditTopic string

	// Collaborator endpoints. Empty values select local stand-ins.
	BiometricServiceURL string
	OCRServiceURL       string
	CodeDeliveryURL     string
}

// FromEnv reads configuration from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                envOr("SECUREVOTE_ADDR", ":8080"),
		JWTSigningKey:       envOr("SECUREVOTE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		CredentialTTL:       envDuration("SECUREVOTE_CREDENTIAL_TTL", 10*time.Minute),
		HandlePepper:        envOr("SECUREVOTE_HANDLE_PEPPER", "dev-handle-pepper"),
		BiometricTolerance:  envFloat("SECUREVOTE_BIOMETRIC_TOLERANCE", 0.6),
		MinEnrollSamples:    envInt("SECUREVOTE_MIN_ENROLL_SAMPLES", 2),
		EnrollmentPolicy:    EnrollmentPolicy(envOr("SECUREVOTE_ENROLLMENT_POLICY", string(EnrollmentReject))),
		CodeTTL:             envDuration("SECUREVOTE_CODE_TTL", 120*time.Second),
		CodeLength:          envInt("SECUREVOTE_CODE_LENGTH", 6),
		LockoutThreshold:    envInt("SECUREVOTE_LOCKOUT_THRESHOLD", 5),
		LockoutWindow:       envDuration("SECUREVOTE_LOCKOUT_WINDOW", 15*time.Minute),
		LockoutDuration:     envDuration("SECUREVOTE_LOCKOUT_DURATION", 15*time.Minute),
		AdminKeyHash:        os.Getenv("SECUREVOTE_ADMIN_KEY_HASH"),
		PostgresDSN:         os.Getenv("SECUREVOTE_POSTGRES_DSN"),
		RedisURL:            os.Getenv("SECUREVOTE_REDIS_URL"),
		KafkaAuditTopic:     envOr("SECUREVOTE_KAFKA_AUDIT_TOPIC", "securevote.audit"),
		BiometricServiceURL: os.Getenv("SECUREVOTE_BIOMETRIC_URL"),
		OCRServiceURL:       os.Getenv("SECUREVOTE_OCR_URL"),
		CodeDeliveryURL:     os.Getenv("SECUREVOTE_CODE_DELIVERY_URL"),
	}
	if brokers := os.Getenv("SECUREVOTE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitCSV(brokers)
	}
	if cfg.EnrollmentPolicy != EnrollmentReject && cfg.EnrollmentPolicy != EnrollmentReplace {
		cfg.EnrollmentPolicy = EnrollmentReject
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if part := raw[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}
