package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPPort string
	// PublicBaseURL is what the payment gateway redirects back to.
	PublicBaseURL string

	MongoURI string
	MongoDB  string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	RedisAddress string
	NATSURL      string

	StripeSecretKey      string
	StripePublishableKey string

	MailgunAPIKey string
	MailgunFrom   string
	AdminEmail    string
}

func Load() (*Config, error) {
	// .env is optional; environment variables win in deployment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	useSSL, err := strconv.ParseBool(getEnv("S3_USE_SSL", "true"))
	if err != nil {
		log.Printf("Warning: invalid S3_USE_SSL value, defaulting to true: %v", err)
		useSSL = true
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		HTTPPort:        getEnv("HTTP_PORT", "3000"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "petstore"),
		S3Endpoint:      getEnv("S3_ENDPOINT", "s3.us-west-1.amazonaws.com"),
		S3Region:        getEnv("S3_REGION", "us-west-1"),
		S3Bucket:        getEnv("S3_BUCKET", "petes-pets"),
		S3AccessKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3UseSSL:        useSSL,
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		NATSURL:         getEnv("NATS_URL", "nats://localhost:4222"),
		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		MailgunAPIKey:   getEnv("MAILGUN_API_KEY", ""),
		MailgunFrom:     getEnv("MAILGUN_FROM", "shop@petes-pets.example"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@petstore.com"),
	}

	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY is not set, checkout will fail")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
