package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string
	API       APIConfig
	LiveKit   LiveKitConfig
	Redis     RedisConfig
	Signaling SignalingConfig
}

type APIConfig struct {
	BaseURL          string
	Timeout          time.Duration
	AnalyticsTimeout time.Duration
	FaceAuthTimeout  time.Duration
}

type LiveKitConfig struct {
	Host       string
	PublicHost string
	// APIKey/APISecret are only set for self-hosted deployments where the
	// client mints its own join tokens. Normally tokens come from the
	// backend join endpoint.
	APIKey    string
	APISecret string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SignalingConfig struct {
	URL string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:          getEnv("API_BASE_URL", "http://localhost:8080"),
			Timeout:          getDuration("API_TIMEOUT", 10*time.Second),
			AnalyticsTimeout: getDuration("ANALYTICS_TIMEOUT", 30*time.Second),
			FaceAuthTimeout:  getDuration("FACE_AUTH_TIMEOUT", 15*time.Second),
		},
		LiveKit: LiveKitConfig{
			Host:       getEnv("LIVEKIT_HOST", "localhost:7880"),
			PublicHost: getEnv("LIVEKIT_PUBLIC_HOST", ""),
			APIKey:     getEnv("LIVEKIT_API_KEY", ""),
			APISecret:  getEnv("LIVEKIT_API_SECRET", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		Signaling: SignalingConfig{
			URL: getEnv("SIGNALING_URL", "ws://localhost:8080/ws/call"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
