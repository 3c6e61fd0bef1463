package config

import "os"

// Config holds environment-driven configuration for the shop backend.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	AMQPURL     string

	SMTPAddr string
	MailFrom string
}

// Load reads configuration from environment variables, applying
// defaults suitable for local development.
func Load() Config {
	return Config{
		Addr:        getEnv("SHOP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AMQPURL:     os.Getenv("AMQP_URL"),
		SMTPAddr:    os.Getenv("SMTP_ADDR"),
		MailFrom:    getEnv("MAIL_FROM", "noreply@onlineshop.local"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
