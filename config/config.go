package config

import (
	"log"
	"os"
	"strconv"
)

const (
	DefaultPort                = "8080"
	DefaultStoreDriver         = "postgres"
	DefaultPasswordScheme      = "bcrypt"
	DefaultDeliveryMode        = "demo"
	DefaultSessionExpiryMin    = 60
	StoreDriverPostgres        = "postgres"
	StoreDriverMemory          = "memory"
	PasswordSchemeBcrypt       = "bcrypt"
	PasswordSchemeLegacySHA256 = "sha256"
	DeliveryModeReal           = "real"
	DeliveryModeDemo           = "demo"
)

type Config struct {
	Env                string
	Port               string
	StoreDriver        string
	DBURL              string
	SessionTokenSecret string
	SessionExpiryMin   int
	PasswordScheme     string
	DeliveryMode       string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioPhoneNumber  string
	OTP                OTPPolicy
}

func Load() *Config {
	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", DefaultPort),
		StoreDriver:        getEnv("STORE_DRIVER", DefaultStoreDriver),
		DBURL:              getEnv("DB_URL", ""),
		SessionTokenSecret: mustGetEnv("SESSION_TOKEN_SECRET"),
		SessionExpiryMin:   getEnvAsInt("SESSION_TOKEN_EXPIRY", DefaultSessionExpiryMin),
		PasswordScheme:     getEnv("PASSWORD_SCHEME", DefaultPasswordScheme),
		DeliveryMode:       getEnv("OTP_DELIVERY_MODE", DefaultDeliveryMode),
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:  getEnv("TWILIO_PHONE_NUMBER", ""),
		OTP:                LoadOTPPolicy(getEnv("OTP_POLICY_FILE", "")),
	}

	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		log.Fatalf("Unsupported STORE_DRIVER: %s", cfg.StoreDriver)
	}
	if cfg.StoreDriver == StoreDriverPostgres && cfg.DBURL == "" {
		log.Fatalf("Missing required environment variable: DB_URL")
	}
	if cfg.PasswordScheme != PasswordSchemeBcrypt && cfg.PasswordScheme != PasswordSchemeLegacySHA256 {
		log.Fatalf("Unsupported PASSWORD_SCHEME: %s", cfg.PasswordScheme)
	}
	if cfg.DeliveryMode != DeliveryModeReal && cfg.DeliveryMode != DeliveryModeDemo {
		log.Fatalf("Unsupported OTP_DELIVERY_MODE: %s", cfg.DeliveryMode)
	}
	if cfg.DeliveryMode == DeliveryModeReal &&
		(cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioPhoneNumber == "") {
		log.Fatalf("OTP_DELIVERY_MODE=real requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER")
	}

	return cfg
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
