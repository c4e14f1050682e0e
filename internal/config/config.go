package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                    string
	AllowedOrigin           string
	DatabaseURL             string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	AuthSecret              string
	AccessTokenTTLMinutes   int
	CartTTLMinutes          int
	LowStockThreshold       int
	LotAccurateCOGS         bool
	AssistantEndpoint       string
	AssistantAPIKey         string
	AssistantTimeoutSeconds int
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	cartTTL, err := strconv.Atoi(getEnv("CART_TTL_MINUTES", "120"))
	if err != nil || cartTTL < 1 {
		cartTTL = 120
	}
	lowStock, err := strconv.Atoi(getEnv("LOW_STOCK_THRESHOLD", "5"))
	if err != nil || lowStock < 1 {
		lowStock = 5
	}
	assistantTimeout, err := strconv.Atoi(getEnv("ASSISTANT_TIMEOUT_SECONDS", "20"))
	if err != nil || assistantTimeout < 1 {
		assistantTimeout = 20
	}

	cfg := Config{
		Port:                    getEnv("PORT", "8080"),
		AllowedOrigin:           getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 redisDB,
		AuthSecret:              strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes:   tokenTTL,
		CartTTLMinutes:          cartTTL,
		LowStockThreshold:       lowStock,
		LotAccurateCOGS:         getEnv("LOT_ACCURATE_COGS", "false") == "true",
		AssistantEndpoint:       strings.TrimSpace(os.Getenv("ASSISTANT_ENDPOINT")),
		AssistantAPIKey:         strings.TrimSpace(os.Getenv("ASSISTANT_API_KEY")),
		AssistantTimeoutSeconds: assistantTimeout,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
