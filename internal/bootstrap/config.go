package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	RedisUrl       string `mapstructure:"REDIS_URL"`
	MongoUri       string `mapstructure:"MONGO_URI"`
	MistralApiKey  string `mapstructure:"MISTRAL_API_KEY"`
	MistralModel   string `mapstructure:"MISTRAL_MODEL"`
	LlmEnabled     bool   `mapstructure:"LLM_ENABLED"`
	IsLocalCors    bool   `mapstructure:"LOCAL_CORS"`
	GameTTLMinutes int    `mapstructure:"GAME_TTL_MINUTES"`
	PageLimitGames int    `mapstructure:"PAGE_LIMIT_GAMES"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.MistralModel == "" {
		cfg.MistralModel = "mistral-large-latest"
	}
	if cfg.GameTTLMinutes <= 0 {
		cfg.GameTTLMinutes = 120
	}
	if cfg.PageLimitGames <= 0 {
		cfg.PageLimitGames = 20
	}

	return &cfg, nil
}
