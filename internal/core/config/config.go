package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name    string
	Env     string
	BaseURL string // 激活链接等对外地址
	HTTP    HTTP
	Admin   AdminHTTP
}

type Log struct {
	Level string
	JSON  bool

	// File 非空时日志同时写文件并按大小切割
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Mail struct {
	Domain string
	APIKey string `mapstructure:"api_key"`
	From   string
}

type Jobs struct {
	AccountCleanupIntervalMin int // 过期未激活账号清理
	CartCleanupIntervalMin    int // 软删商品购物车残留清理
	DeletedProductKeepDays    int // 软删商品保留天数，过期后踢出购物车
}

type Import struct {
	BatchSize int
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Mail   Mail
	Jobs   Jobs
	Import Import
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.JWT.AccessTokenTTLMin <= 0 {
		c.JWT.AccessTokenTTLMin = 60
	}
	if c.Jobs.AccountCleanupIntervalMin <= 0 {
		c.Jobs.AccountCleanupIntervalMin = 24 * 60
	}
	if c.Jobs.CartCleanupIntervalMin <= 0 {
		c.Jobs.CartCleanupIntervalMin = 24 * 60
	}
	if c.Jobs.DeletedProductKeepDays <= 0 {
		c.Jobs.DeletedProductKeepDays = 30
	}
	if c.Import.BatchSize <= 0 {
		c.Import.BatchSize = 100
	}
}
