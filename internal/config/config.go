package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	LogJSON      bool          `yaml:"log_json"`
	ResetCodeTTL time.Duration `yaml:"reset_code_ttl"`
	AIServiceURL string        `yaml:"ai_service_url"`
	Email        Email         `yaml:"email"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	SenderName string `yaml:"sender_name"`
	From       string `yaml:"from"`
	Timeout    int    `yaml:"timeout"` // seconds
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	JwtKey         string `yaml:"jwt_key"`
	Pg             Pg     `yaml:"pg"`
	SMTPUsername   string `yaml:"smtp_username"`
	SMTPPassword   string `yaml:"smtp_password"`
	SendgridAPIKey string `yaml:"sendgrid_api_key"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) ResetCodeTTL() time.Duration {
	return c.Public.ResetCodeTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder.
// Panics on malformed config; only called during startup.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Addr == "" {
		c.Public.Addr = ":8081"
	}
	if c.Public.ResetCodeTTL == 0 {
		c.Public.ResetCodeTTL = 15 * time.Minute
	}
	if c.Public.AIServiceURL == "" {
		c.Public.AIServiceURL = "http://127.0.0.1:8000"
	}
}
