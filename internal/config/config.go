package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret []byte

	KafkaBrokers []string
	RedisAddr    string

	ShippingPrice float64

	MoMoBaseURL         string
	MoMoAPIUser         string
	MoMoAPIKey          string
	MoMoSubscriptionKey string
	MoMoCurrency        string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "marketplace"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		RedisAddr:    os.Getenv("REDIS_ADDR"),

		ShippingPrice: EnvFloatDefault("SHIPPING_PRICE", 0),

		MoMoBaseURL:         EnvDefault("MOMO_BASE_URL", "https://sandbox.momodeveloper.mtn.com"),
		MoMoAPIUser:         os.Getenv("MOMO_API_USER"),
		MoMoAPIKey:          os.Getenv("MOMO_API_KEY"),
		MoMoSubscriptionKey: os.Getenv("MOMO_PRIMARY_KEY"),
		MoMoCurrency:        EnvDefault("MOMO_CURRENCY", "EUR"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
