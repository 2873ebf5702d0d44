package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type ProviderConfig struct {
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	From        string `mapstructure:"from"`
	CallbackURL string `mapstructure:"callback_url"`
}

type Config struct {
	Mode          string          `mapstructure:"mode"`
	Port          int             `mapstructure:"port"`
	StaticPath    string          `mapstructure:"static_path"`
	ReadLimit     int64           `mapstructure:"read_limit"`
	PingPeriod    time.Duration   `mapstructure:"ping_period"`
	ReadyInterval time.Duration   `mapstructure:"ready_interval"`
	JoinLimit     int             `mapstructure:"join_limit"`
	JoinWindow    time.Duration   `mapstructure:"join_window"`
	Secret        string          `mapstructure:"secret"`
	ICEServers    []ICEServerSpec `mapstructure:"ice_servers"`
	Provider      ProviderConfig  `mapstructure:"provider"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validateICEServers(cfg.ICEServers); err != nil {
		return nil, fmt.Errorf("invalid ice_servers: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("ready_interval", "2s")
	v.SetDefault("join_limit", 10)
	v.SetDefault("join_window", "10s")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
		{"urls": []string{"stun:stun1.l.google.com:19302"}},
	})
	v.SetDefault("provider.url", "")
	v.SetDefault("provider.token", "")
	v.SetDefault("provider.from", "")
	v.SetDefault("provider.callback_url", "")
}
