package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Places  PlacesConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig 提供簽章 session cookie 用的密鑰
type SessionConfig struct {
	CookieSecret string
}

// PlacesConfig 提供餐廳搜尋服務的連線資訊
type PlacesConfig struct {
	BaseURL string
	APIKey  string
	Radius  int // 搜尋半徑（公尺）
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 密鑰類設定允許從環境變數覆寫，例如 SESSION_COOKIESECRET、PLACES_APIKEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("places.radius", 500)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
