package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dysencn/gomoku-naive/internal/service/bot"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisAddr            string
	RedisPassword        string
	SessionTTL           time.Duration
	LogLevel             string
	AppEnv               string
	DefaultDifficulty    bot.Difficulty
	Engine               bot.Settings
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// CORS: localhost for development plus CSV values
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := GetEnv("ALLOWED_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Engine overrides. Invalid values fall back to defaults in Normalize.
	engine := bot.DefaultSettings().Merge(bot.Settings{
		SearchDepth:    GetEnvAsInt("AI_SEARCH_DEPTH", 0),
		CandidateCount: GetEnvAsInt("AI_CANDIDATE_COUNT", 0),
		SearchRange:    GetEnvAsInt("AI_SEARCH_RANGE", 0),
		PatternWeights: map[string]float64{
			bot.WeightOpponentThreat: GetEnvAsFloat("AI_OPPONENT_THREAT", bot.DefaultWeights()[bot.WeightOpponentThreat]),
		},
	}).Normalize()

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", "")),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisAddr:            GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		SessionTTL:           time.Duration(GetEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		AppEnv:               GetEnv("APP_ENV", "production"),
		DefaultDifficulty:    bot.ParseDifficulty(GetEnv("AI_DEFAULT_DIFFICULTY", string(bot.DifficultyMedium))),
		Engine:               engine,
	}

	return AppConfig
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
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid float value for %s: %s, using default: %g", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
