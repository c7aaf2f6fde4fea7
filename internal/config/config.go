// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	APIClient  `yaml:"api_client"`
	Login      `yaml:"login"`
	Sync       `yaml:"sync"`
	Lockdown   `yaml:"lockdown"`
	StubServer `yaml:"stub_server"`
	JWTToken   `yaml:"jwttoken"`
}

// Login учётные данные для входа при старте портала
type Login struct {
	Email    string `yaml:"email" env:"PORTAL_LOGIN_EMAIL" env-default:"demo@hostfolio.io"`
	Password string `yaml:"password" env:"PORTAL_LOGIN_PASSWORD" env-default:"hostfolio-demo"`
}

// APIClient настройки удалённого доступа к бэкенду портала
type APIClient struct {
	BaseURL      string        `yaml:"base_url" env:"PORTAL_API_URL" env-default:"http://localhost:8081/api"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
	RateLimitRPS float64       `yaml:"rate_limit_rps" env-default:"20"`
	RateBurst    int           `yaml:"rate_burst" env-default:"40"`
}

// Sync интервалы фонового обновления витрин состояния
type Sync struct {
	NotificationInterval time.Duration `yaml:"notification_interval" env-default:"30s"`
	SubscriptionInterval time.Duration `yaml:"subscription_interval" env-default:"5m"`
}

// Lockdown настройки блокирующего слоя
type Lockdown struct {
	NoticeInterval time.Duration `yaml:"notice_interval" env-default:"3s"`
}

// StubServer структура для настройки локального стаб-бэкенда
type StubServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном стаб-бэкенда
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-default:"local-dev-secret"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"15m"`
	RefreshTTL   time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"APIClient:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  RateLimitRPS: %.1f\n"+
			"  RateBurst: %d\n"+
			"Sync:\n"+
			"  NotificationInterval: %s\n"+
			"  SubscriptionInterval: %s\n"+
			"Lockdown:\n"+
			"  NoticeInterval: %s\n"+
			"StubServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n",
		c.Env,
		c.BaseURL,
		c.APIClient.Timeout,
		c.RateLimitRPS,
		c.RateBurst,
		c.NotificationInterval,
		c.SubscriptionInterval,
		c.NoticeInterval,
		c.Address,
		c.StubServer.Timeout,
		c.IdleTimeout,
	)
}
