package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config はサーバーとクライアントの起動設定です。
type Config struct {
	Port           string
	DatabaseURL    string   // 空の場合はメモリ上にハイスコアを保存する
	RedisURL       string   // 空の場合はキャッシュを使用しない
	RedisPassword  string
	AllowedOrigins []string // CORS で許可するオリジン
	JWTSecret      string
	BypassAuth     bool // テスト用: true の場合は JWT を検証しない
	BoardWidth     int
	BoardHeight    int
	HighScoreLimit int
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// LoadConfig は環境変数から設定を読み込みます。.env の読み込みは呼び出し側で行ってください。
func LoadConfig() *Config {
	cfg := &Config{
		Port:           GetEnv("PORT", "8080"),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		RedisURL:       GetEnv("REDIS_URL", ""),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		AllowedOrigins: GetEnvAsList("ALLOWED_ORIGINS", defaultAllowedOrigins),
		JWTSecret:      GetEnv("SUPABASE_JWT_SECRET", ""),
		BypassAuth:     GetEnvAsBool("BYPASS_AUTH", false),
		BoardWidth:     GetEnvAsInt("BOARD_WIDTH", 10),
		BoardHeight:    GetEnvAsInt("BOARD_HEIGHT", 20),
		HighScoreLimit: GetEnvAsInt("HIGH_SCORE_LIMIT", 10),
	}

	log.Printf("[Config] Port=%s, Board=%dx%d, HighScoreLimit=%d, Database=%t, Redis=%t, BypassAuth=%t, AllowedOrigins=%v",
		cfg.Port, cfg.BoardWidth, cfg.BoardHeight, cfg.HighScoreLimit,
		cfg.DatabaseURL != "", cfg.RedisURL != "", cfg.BypassAuth, cfg.AllowedOrigins)
	return cfg
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Config] Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("[Config] Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsList はカンマ区切りの値を空白を除いて分割します。
func GetEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
