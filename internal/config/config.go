package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Security SecurityConfig `yaml:"security"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// JWTConfig holds signing secrets and lifetimes for both token types.
// Access and refresh tokens are signed with separate secrets so a leaked
// access secret cannot mint refresh tokens.
type JWTConfig struct {
	AccessSecret     string `yaml:"access_secret"`
	RefreshSecret    string `yaml:"refresh_secret"`
	AccessExpireMin  int    `yaml:"access_expire_minutes"`
	RefreshExpireHrs int    `yaml:"refresh_expire_hours"`
}

type SecurityConfig struct {
	BcryptCost    int     `yaml:"bcrypt_cost"`
	AdminEmail    string  `yaml:"admin_email"`
	AdminPassword string  `yaml:"admin_password"`
	LoginRPS      float64 `yaml:"login_rps"`
	LoginBurst    int     `yaml:"login_burst"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.applyDefaults()
	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "remstroy.db",
		},
		JWT: JWTConfig{
			AccessSecret:     "remstroy-access-secret-change-in-production",
			RefreshSecret:    "remstroy-refresh-secret-change-in-production",
			AccessExpireMin:  15,
			RefreshExpireHrs: 168,
		},
		Security: SecurityConfig{
			BcryptCost:    10,
			AdminEmail:    "admin@remstroy.local",
			AdminPassword: "admin",
			LoginRPS:      5,
			LoginBurst:    10,
		},
	}
}

// applyDefaults fills zero values left out of a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = def.Server.Mode
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = def.Database.DSN
	}
	if c.JWT.AccessSecret == "" {
		c.JWT.AccessSecret = def.JWT.AccessSecret
	}
	if c.JWT.RefreshSecret == "" {
		c.JWT.RefreshSecret = def.JWT.RefreshSecret
	}
	if c.JWT.AccessExpireMin <= 0 {
		c.JWT.AccessExpireMin = def.JWT.AccessExpireMin
	}
	if c.JWT.RefreshExpireHrs <= 0 {
		c.JWT.RefreshExpireHrs = def.JWT.RefreshExpireHrs
	}
	if c.Security.BcryptCost <= 0 {
		c.Security.BcryptCost = def.Security.BcryptCost
	}
	if c.Security.AdminEmail == "" {
		c.Security.AdminEmail = def.Security.AdminEmail
	}
	if c.Security.AdminPassword == "" {
		c.Security.AdminPassword = def.Security.AdminPassword
	}
	if c.Security.LoginRPS <= 0 {
		c.Security.LoginRPS = def.Security.LoginRPS
	}
	if c.Security.LoginBurst <= 0 {
		c.Security.LoginBurst = def.Security.LoginBurst
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_ACCESS_SECRET"); secret != "" {
		c.JWT.AccessSecret = secret
	}
	if secret := os.Getenv("JWT_REFRESH_SECRET"); secret != "" {
		c.JWT.RefreshSecret = secret
	}
	if v := os.Getenv("JWT_ACCESS_EXPIRE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			c.JWT.AccessExpireMin = minutes
		}
	}
	if v := os.Getenv("JWT_REFRESH_EXPIRE_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			c.JWT.RefreshExpireHrs = hours
		}
	}
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		c.Security.AdminEmail = email
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		c.Security.AdminPassword = password
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
