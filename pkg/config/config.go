package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	FrontendURL string

	DBDriver    string
	DatabaseURL string

	Location *time.Location

	// Background jobs
	SweepSpec      string
	GenerationSpec string
	GenerationDays int
	DueSoonWindow  time.Duration
	SlotTieBreak   string
	CadenceAnchor  string

	// AI command interpreter
	AIProvider    string
	OpenAIAPIKey  string
	OpenAIModel   string
	GeminiApiKey  string
	OllamaBaseURL string
	OllamaModel   string

	// Notification sinks
	FirebaseCredentials string
	FCMTopic            string
	TelegramToken       string
	TelegramChatID      int64
	GoogleProjectID     string
	GoogleCredentials   string
	PubSubTopic         string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := newViper()
	if path := os.Getenv("TASKO_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		// A missing or broken file leaves env + defaults in place
		_ = v.ReadInConfig()
	}

	return &Config{
		Port:                v.GetString("PORT"),
		FrontendURL:         v.GetString("FRONTEND_URL"),
		DBDriver:            strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		Location:            loadLocation(v.GetString("TIMEZONE")),
		SweepSpec:           v.GetString("SWEEP_SPEC"),
		GenerationSpec:      v.GetString("GENERATION_SPEC"),
		GenerationDays:      positiveInt(v.GetInt("GENERATION_DAYS"), 7),
		DueSoonWindow:       positiveDuration(v.GetDuration("DUE_SOON_WINDOW"), time.Hour),
		SlotTieBreak:        strings.ToLower(v.GetString("SLOT_TIE_BREAK")),
		CadenceAnchor:       strings.ToLower(v.GetString("CADENCE_ANCHOR")),
		AIProvider:          strings.ToLower(v.GetString("AI_PROVIDER")),
		OpenAIAPIKey:        v.GetString("OPENAI_API_KEY"),
		OpenAIModel:         v.GetString("OPENAI_MODEL"),
		GeminiApiKey:        v.GetString("GEMINI_API_KEY"),
		OllamaBaseURL:       v.GetString("OLLAMA_BASE_URL"),
		OllamaModel:         v.GetString("OLLAMA_MODEL"),
		FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS"),
		FCMTopic:            v.GetString("FCM_TOPIC"),
		TelegramToken:       v.GetString("TELEGRAM_TOKEN"),
		TelegramChatID:      v.GetInt64("TELEGRAM_CHAT_ID"),
		GoogleProjectID:     v.GetString("GOOGLE_PROJECT_ID"),
		GoogleCredentials:   v.GetString("GOOGLE_CREDENTIALS"),
		PubSubTopic:         v.GetString("PUBSUB_TOPIC"),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3001")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "data/tasko.db")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("SWEEP_SPEC", "@every 1m")
	v.SetDefault("GENERATION_SPEC", "0 0 6 * * *")
	v.SetDefault("GENERATION_DAYS", 7)
	v.SetDefault("DUE_SOON_WINDOW", "1h")
	v.SetDefault("SLOT_TIE_BREAK", "priority")
	v.SetDefault("CADENCE_ANCHOR", "slot")
	v.SetDefault("AI_PROVIDER", "auto")
	v.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("FCM_TOPIC", "tasko")
	v.SetDefault("PUBSUB_TOPIC", "tasko-notifications")
	return v
}

func loadLocation(name string) *time.Location {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func positiveInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func positiveDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
