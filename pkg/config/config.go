package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Chains     ChainsConfig     `mapstructure:"chains"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Price      PriceConfig      `mapstructure:"price"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN 拼接 Postgres 连接串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// URL 供 golang-migrate 使用
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// ChainsConfig 每个网络的 RPC 地址，key 为网络名 (ethereum / base / polygon ...)
type ChainsConfig struct {
	RpcUrls map[string]string `mapstructure:"rpc_urls"`
	RPS     float64           `mapstructure:"rps"` // 每条链每秒最多 RPC 调用数，0 不限
}

type SettlementConfig struct {
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	ReceiptMaxAttempts  int           `mapstructure:"receipt_max_attempts"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	InflightLockTTL     time.Duration `mapstructure:"inflight_lock_ttl"`
}

type PriceConfig struct {
	Provider       string            `mapstructure:"provider"` // "coingecko" or "static"
	BaseURL        string            `mapstructure:"base_url"`
	APIKey         string            `mapstructure:"api_key"`
	CacheTTL       time.Duration     `mapstructure:"cache_ttl"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	Static         map[string]string `mapstructure:"static"` // symbol -> USD, 仅开发环境
}

type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if desired
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			// Config file was found but another error was produced
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "tip_user")
	viper.SetDefault("db.password", "tip_password")
	viper.SetDefault("db.name", "tip_db")
	viper.SetDefault("db.sslmode", "disable")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("chains.rpc_urls", map[string]string{})
	viper.SetDefault("chains.rps", 10)

	// 收据轮询: 5s x 12 次，约一分钟出块窗口
	viper.SetDefault("settlement.receipt_poll_interval", 5*time.Second)
	viper.SetDefault("settlement.receipt_max_attempts", 12)
	viper.SetDefault("settlement.request_timeout", 90*time.Second)
	viper.SetDefault("settlement.inflight_lock_ttl", 2*time.Minute)

	viper.SetDefault("price.provider", "coingecko")
	viper.SetDefault("price.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("price.cache_ttl", 60*time.Second)
	viper.SetDefault("price.request_timeout", 10*time.Second)

	viper.SetDefault("worker.concurrency", 10)
}
