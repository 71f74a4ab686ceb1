package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address    string `mapstructure:"address"`
	Port       int    `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// JWTConfig holds the two token secrets. Access and refresh tokens are
// signed with independent secrets and expiries.
type JWTConfig struct {
	AccessSecret       string `mapstructure:"access_secret"`
	AccessExpireMins   int    `mapstructure:"access_expire_mins"`
	RefreshSecret      string `mapstructure:"refresh_secret"`
	RefreshExpireHours int    `mapstructure:"refresh_expire_hours"`
}

type SecurityConfig struct {
	BcryptCost        int    `mapstructure:"bcrypt_cost"`
	ResetTokenTTLMins int    `mapstructure:"reset_token_ttl_mins"`
	ResetRedirectURL  string `mapstructure:"reset_redirect_url"` // 重置密码页面地址，邮件里拼接 token
	CookieSecure      bool   `mapstructure:"cookie_secure"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type StorageConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

type AppSubConfig struct {
	PageSize  int    `mapstructure:"page_size"`
	UploadDir string `mapstructure:"upload_dir"` // multipart 文件落盘的临时目录
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Mail     MailConfig     `mapstructure:"mail"`
	Storage  StorageConfig  `mapstructure:"storage"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. PF_JWT_ACCESS_SECRET=xxx
		v.SetEnvPrefix("PF")
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err = c.validate(); err != nil {
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// validate fails fast on misconfiguration that would otherwise surface as
// per-request signing errors.
func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("jwt.access_secret is required")
	}
	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt.refresh_secret is required")
	}
	return nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
