package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Stripe struct {
		SecretKey  string `yaml:"secret_key"`
		BaseURL    string `yaml:"base_url"`
		SuccessURL string `yaml:"success_url"`
		CancelURL  string `yaml:"cancel_url"`
	} `yaml:"stripe"`

	Billing struct {
		Currency         string  `yaml:"currency"`
		PremiumPrice     float64 `yaml:"premium_price"`
		BoostPrice       float64 `yaml:"boost_price"`
		PremiumDays      int     `yaml:"premium_days"`
		BoostDays        int     `yaml:"boost_days"`
		ExpirySweepEvery string  `yaml:"expiry_sweep_every"` // cron spec
	} `yaml:"billing"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	I18n struct {
		Path            string `yaml:"path"`
		DefaultLanguage string `yaml:"default_language"`
	} `yaml:"i18n"`
}

var AppConfig *Config

// LoadConfig reads configuration. When DATABASE_URL is set the config comes
// entirely from environment variables (test/container mode); otherwise it is
// read from config/config.yaml (path overridable via CONFIG_PATH).
func LoadConfig() {
	var cfg Config

	// .env is optional; ignore the error when the file is absent.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.BaseURL = os.Getenv("STRIPE_BASE_URL")
	cfg.Stripe.SuccessURL = os.Getenv("STRIPE_SUCCESS_URL")
	cfg.Stripe.CancelURL = os.Getenv("STRIPE_CANCEL_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Stripe.BaseURL == "" {
		cfg.Stripe.BaseURL = "https://api.stripe.com"
	}
	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = "usd"
	}
	if cfg.Billing.PremiumPrice == 0 {
		cfg.Billing.PremiumPrice = 9.99
	}
	if cfg.Billing.BoostPrice == 0 {
		cfg.Billing.BoostPrice = 4.99
	}
	if cfg.Billing.PremiumDays == 0 {
		cfg.Billing.PremiumDays = 30
	}
	if cfg.Billing.BoostDays == 0 {
		cfg.Billing.BoostDays = 30
	}
	if cfg.Billing.ExpirySweepEvery == "" {
		cfg.Billing.ExpirySweepEvery = "@every 6h"
	}
	if cfg.I18n.Path == "" {
		cfg.I18n.Path = "i18n/translations.csv"
	}
	if cfg.I18n.DefaultLanguage == "" {
		cfg.I18n.DefaultLanguage = "en"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
