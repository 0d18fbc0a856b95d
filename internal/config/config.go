package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigFile = "config.yml"

type Config struct {
	IsDebug  *bool  `yaml:"is_debug"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Listen   struct {
		BindIP   string `yaml:"bind_ip" env:"LISTEN_BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"LISTEN_PORT" env-default:"5000"`
		TLS      bool   `yaml:"tls_enabled" env:"LISTEN_TLS" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"LISTEN_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"LISTEN_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Ocpi struct {
		BasePath    string `yaml:"base_path" env:"OCPI_BASE_PATH" env-default:"/ocpi/cpo/2.2"`
		PublicUrl   string `yaml:"public_url" env:"OCPI_PUBLIC_URL" env-default:""`
		CountryCode string `yaml:"country_code" env:"OCPI_COUNTRY_CODE" env-default:""`
		PartyId     string `yaml:"party_id" env:"OCPI_PARTY_ID" env-default:""`
		OpenData    struct {
			Locations bool `yaml:"locations" env:"OCPI_OPEN_LOCATIONS" env-default:"false"`
			Tariffs   bool `yaml:"tariffs" env:"OCPI_OPEN_TARIFFS" env-default:"false"`
		} `yaml:"open_data"`
	} `yaml:"ocpi"`
	Auth struct {
		JwtSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-default:""`
		CacheTTL  time.Duration `yaml:"cache_ttl" env:"AUTH_CACHE_TTL" env-default:"5m"`
	} `yaml:"auth"`
	Commands struct {
		BackendUrl     string `yaml:"backend_url" env:"COMMANDS_BACKEND_URL" env-default:""`
		BackendToken   string `yaml:"backend_token" env:"COMMANDS_BACKEND_TOKEN" env-default:""`
		EnforceTimeout bool   `yaml:"enforce_timeout" env:"COMMANDS_ENFORCE_TIMEOUT" env-default:"false"`
		RelayClients   int    `yaml:"relay_clients" env:"COMMANDS_RELAY_CLIENTS" env-default:"256"`
	} `yaml:"commands"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"ocpi"`
	} `yaml:"mongo"`
	Redis struct {
		Enabled        bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
		Addr           string `yaml:"addr" env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
		Password       string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		ResultsChannel string `yaml:"results_channel" env:"REDIS_RESULTS_CHANNEL" env-default:"ocpi:command_results"`
	} `yaml:"redis"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env:"METRICS_BIND_IP" env-default:"0.0.0.0"`
		Port    string `yaml:"port" env:"METRICS_PORT" env-default:"9100"`
	} `yaml:"metrics"`
}

func (c *Config) Debug() bool {
	return c.IsDebug != nil && *c.IsDebug
}

var (
	instance *Config
	loadErr  error
	once     sync.Once
)

// GetConfig reads the configuration file once, the path can be set with CONFIG_FILE;
// environment variables override file values
func GetConfig() (*Config, error) {
	once.Do(func() {
		path := os.Getenv("CONFIG_FILE")
		if path == "" {
			path = defaultConfigFile
		}
		log.Println("reading config", path)
		instance = &Config{}
		if _, statErr := os.Stat(path); statErr != nil {
			loadErr = cleanenv.ReadEnv(instance)
		} else {
			loadErr = cleanenv.ReadConfig(path, instance)
		}
		if loadErr != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			log.Println(desc)
			log.Println(loadErr)
			instance = nil
		}
	})
	return instance, loadErr
}
