package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig
	DB       DBConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Session  SessionConfig
	Server   ServerConfig
	Logger   LoggerConfig
}

type TelegramConfig struct {
	Token       string
	PublicURL   string // empty means long polling, webhook is not set
	WebhookPath string
	TokenSecret string // HMAC key for quiz answer callback tokens
}

type DBConfig struct {
	Path string // sqlite database file
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LLMConfig struct {
	OpenAIAPIKey string
	Model        string
	Timeout      time.Duration
}

type SessionConfig struct {
	ResultTTL time.Duration // lifetime of a generated-but-unsaved result
	PageSize  int           // saved-list page size
	Workers   int           // bound on concurrently handled updates
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../")
		viper.AddConfigPath("../../config")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("telegram.webhook_path", "/webhook")
	viper.SetDefault("db.path", "data.db")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.timeout", 30)
	viper.SetDefault("session.result_ttl", 3600)
	viper.SetDefault("session.page_size", 10)
	viper.SetDefault("session.workers", 16)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional when everything comes from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Telegram: TelegramConfig{
			Token:       viper.GetString("telegram.token"),
			PublicURL:   viper.GetString("telegram.public_url"),
			WebhookPath: viper.GetString("telegram.webhook_path"),
			TokenSecret: viper.GetString("telegram.token_secret"),
		},
		DB: DBConfig{
			Path: viper.GetString("db.path"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			OpenAIAPIKey: viper.GetString("llm.openai_api_key"),
			Model:        viper.GetString("llm.model"),
			Timeout:      time.Duration(viper.GetInt("llm.timeout")) * time.Second,
		},
		Session: SessionConfig{
			ResultTTL: time.Duration(viper.GetInt("session.result_ttl")) * time.Second,
			PageSize:  viper.GetInt("session.page_size"),
			Workers:   viper.GetInt("session.workers"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  time.Duration(viper.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("server.write_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Environment variables take precedence over the file.
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if url := os.Getenv("PUBLIC_BASE_URL"); url != "" {
		config.Telegram.PublicURL = url
	}
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		config.Telegram.TokenSecret = secret
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		config.DB.Path = path
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.OpenAIAPIKey = openAIKey
	}

	if config.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is required (telegram.token or BOT_TOKEN)")
	}
	if config.Telegram.WebhookPath == "" || config.Telegram.WebhookPath[0] != '/' {
		config.Telegram.WebhookPath = "/" + config.Telegram.WebhookPath
	}

	return config, nil
}
