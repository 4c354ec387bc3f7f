package configuration

import (
	"fmt"
	"os"
	"strconv"

	"skallars-social/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	LinkedIn    LinkedIn    `json:"linkedin"`
	Share       Share       `json:"share"`
	Site        Site        `json:"site"`
	Scheduler   Scheduler   `json:"scheduler"`
	Metrics     Metrics     `json:"metrics"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Logger struct {
	Format string `json:"format"`
}

// LinkedIn holds the OAuth client credentials and the REST versioning header.
type LinkedIn struct {
	ClientID                  string `json:"clientId"`
	ClientSecret              string `json:"clientSecret"`
	RedirectURI               string `json:"redirectURI"`
	OrganizationScopesEnabled bool   `json:"organizationScopesEnabled"`
	// Version is sent as the LinkedIn-Version header on REST-tier calls.
	Version string `json:"version"`
}

// Share tunes the queue runner and the stuck-item reaper.
type Share struct {
	BatchSize         int    `json:"batchSize"`
	PollSeconds       int    `json:"pollSeconds"`
	LeaseMinutes      int    `json:"leaseMinutes"`
	DefaultVisibility string `json:"defaultVisibility"`
}

// Site describes the public website the shares link back to.
type Site struct {
	BaseURL string `json:"baseURL"`
	// Languages is the fallback order for localized article fields.
	Languages []string `json:"languages"`
	// ConnectFallbackPath is where failed OAuth callbacks land.
	ConnectFallbackPath string `json:"connectFallbackPath"`
}

// Scheduler authenticates the privileged cron trigger endpoint.
type Scheduler struct {
	Secret string `json:"secret"`
}

type Metrics struct {
	CacheTTLSeconds int `json:"cacheTTLSeconds"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initLinkedIn(&C)
	initPipeline(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	// Optional MSSQL config via environment (Azure SQL in production).
	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = os.Getenv("MSSQL_HOST")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = os.Getenv("MSSQL_USER")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}
	if C.Database.Mssql.Port == "" {
		if v := os.Getenv("MSSQL_PORT"); v != "" {
			C.Database.Mssql.Port = v
		} else {
			C.Database.Mssql.Port = "1433"
		}
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment wins over the config file.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10002
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10002
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initLinkedIn(C *Config) {
	if v := os.Getenv("LINKEDIN_CLIENT_ID"); v != "" {
		C.LinkedIn.ClientID = v
	}
	if v := os.Getenv("LINKEDIN_CLIENT_SECRET"); v != "" {
		C.LinkedIn.ClientSecret = v
	}
	if v := os.Getenv("LINKEDIN_REDIRECT_URI"); v != "" {
		C.LinkedIn.RedirectURI = v
	}
	if v := os.Getenv("LINKEDIN_ORG_SCOPES"); v == "true" || v == "1" {
		C.LinkedIn.OrganizationScopesEnabled = true
	}
	if C.LinkedIn.Version == "" {
		C.LinkedIn.Version = "202406"
	}
}

func initPipeline(C *Config) {
	if v := os.Getenv("SCHEDULER_SECRET"); v != "" {
		C.Scheduler.Secret = v
	}
	if C.Share.BatchSize == 0 {
		C.Share.BatchSize = 10
	}
	if C.Share.PollSeconds == 0 {
		C.Share.PollSeconds = 60
	}
	if C.Share.LeaseMinutes == 0 {
		C.Share.LeaseMinutes = 15
	}
	if C.Share.DefaultVisibility == "" {
		C.Share.DefaultVisibility = "PUBLIC"
	}
	if C.Site.BaseURL == "" {
		if v := os.Getenv("SITE_BASE_URL"); v != "" {
			C.Site.BaseURL = v
		} else {
			C.Site.BaseURL = "https://www.skallars.sk"
		}
	}
	if len(C.Site.Languages) == 0 {
		C.Site.Languages = []string{"sk", "en", "de"}
	}
	if C.Site.ConnectFallbackPath == "" {
		C.Site.ConnectFallbackPath = "/admin/social"
	}
	if C.Metrics.CacheTTLSeconds == 0 {
		C.Metrics.CacheTTLSeconds = 600
	}
}
