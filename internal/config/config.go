package config

import (
	"os"
)

// Config is built once in main and injected everywhere. Nothing outside
// this package reads the environment after startup.
type Config struct {
	AppPort string

	// AppBaseURL is the externally reachable origin, used to build
	// checkout callback links.
	AppBaseURL string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	// SessionSecret signs the session JWT. Must be at least 32 bytes.
	SessionSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	PaystackSecretKey    string
	KorapaySecretKey     string
	FlutterwaveSecretKey string
	EbillsAPIKey         string
	EbillsBaseURL        string

	// Webhook signing secrets, one per provider. A provider with an
	// empty secret fails closed at verification time.
	PaystackWebhookSecret    string
	KorapayWebhookSecret     string
	FlutterwaveWebhookSecret string
	EbillsWebhookSecret      string
}

func Load() Config {

	cfg := Config{

		AppPort: os.Getenv("APP_PORT"),

		AppBaseURL: os.Getenv("APP_BASE_URL"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		PaystackSecretKey:    os.Getenv("PAYSTACK_SECRET_KEY"),
		KorapaySecretKey:     os.Getenv("KORAPAY_SECRET_KEY"),
		FlutterwaveSecretKey: os.Getenv("FLUTTERWAVE_SECRET_KEY"),
		EbillsAPIKey:         os.Getenv("EBILLS_API_KEY"),
		EbillsBaseURL:        os.Getenv("EBILLS_BASE_URL"),

		PaystackWebhookSecret:    os.Getenv("PAYSTACK_WEBHOOK_SECRET"),
		KorapayWebhookSecret:     os.Getenv("KORAPAY_WEBHOOK_SECRET"),
		FlutterwaveWebhookSecret: os.Getenv("FLUTTERWAVE_WEBHOOK_SECRET"),
		EbillsWebhookSecret:      os.Getenv("EBILLS_WEBHOOK_SECRET"),
	}

	return cfg

}
