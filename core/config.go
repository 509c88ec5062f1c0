package core

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		WorkDir      string
		RollbarToken string

		Server    ServerConfig
		Auth      AuthConfig
		Storage   StorageConfig
		Postgres  PostgresConfig
		Redis     RedisConfig
		Mongo     MongoConfig
		Scheduler SchedulerConfig
		Broadcast BroadcastConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	// AuthConfig configures the admin login gate. The gate is disabled when Email or PasswordHash is empty.
	AuthConfig struct {
		Email        string
		PasswordHash string // bcrypt
		SecretKey    string
		TokenTTL     time.Duration
	}

	StorageConfig struct {
		Driver string // memory | file | postgres | redis | mongo
		Path   string // file driver
	}

	PostgresConfig struct {
		Host          string
		Port          int
		User          string
		Password      string
		Name          string
		DisableTLS    bool
		AdminUser     string
		AdminPassword string
	}

	RedisConfig struct {
		Address   string
		Password  string
		DB        int
		KeyPrefix string
	}

	MongoConfig struct {
		URI        string
		Database   string
		Collection string
	}

	SchedulerConfig struct {
		CheckInterval   time.Duration
		NotificationTTL time.Duration
	}

	BroadcastConfig struct {
		Driver         string // console | sendgrid | telegram
		SendgridApiKey string
		FromEmail      string
		FromName       string
		Recipients     []string
		TelegramToken  string
		TelegramChatID int64
	}
)

// AuthEnabled reports whether the login gate is configured.
func (conf *Config) AuthEnabled() bool {
	return conf.Auth.Email != "" && conf.Auth.PasswordHash != ""
}

func (pc PostgresConfig) Address() string {
	return pc.Host + ":" + strconv.Itoa(pc.Port)
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the upper-cased env name, eg. DEV_STORAGE_DRIVER.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Jyoti Portal")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("auth.email", "")
	v.SetDefault("auth.passwordHash", "")
	v.SetDefault("auth.secretKey", "jy0t1-s3cr3t(k$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("auth.tokenTTL", 7*24*time.Hour)

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "data/portal.json")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "jyoti")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "jyoti")
	v.SetDefault("postgres.disableTLS", true)
	v.SetDefault("postgres.adminUser", "")
	v.SetDefault("postgres.adminPassword", "")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "jyoti:")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "jyoti")
	v.SetDefault("mongo.collection", "storage")

	v.SetDefault("scheduler.checkInterval", 30*time.Second)
	v.SetDefault("scheduler.notificationTTL", 8*time.Second)

	v.SetDefault("broadcast.driver", "console")
	v.SetDefault("broadcast.sendgridApiKey", "")
	v.SetDefault("broadcast.fromEmail", "noreply@localhost")
	v.SetDefault("broadcast.fromName", "Jyoti Academy")
	v.SetDefault("broadcast.recipients", []string{})
	v.SetDefault("broadcast.telegramToken", "")
	v.SetDefault("broadcast.telegramChatId", int64(0))

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.Set("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		WorkDir:      workDir,
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Auth: AuthConfig{
			Email:        CleanString(v.GetString("auth.email"), true /* lower */),
			PasswordHash: v.GetString("auth.passwordHash"),
			SecretKey:    v.GetString("auth.secretKey"),
			TokenTTL:     v.GetDuration("auth.tokenTTL"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			Path:   v.GetString("storage.path"),
		},
		Postgres: PostgresConfig{
			Host:          v.GetString("postgres.host"),
			Port:          v.GetInt("postgres.port"),
			User:          v.GetString("postgres.user"),
			Password:      v.GetString("postgres.password"),
			Name:          v.GetString("postgres.name"),
			DisableTLS:    v.GetBool("postgres.disableTLS"),
			AdminUser:     v.GetString("postgres.adminUser"),
			AdminPassword: v.GetString("postgres.adminPassword"),
		},
		Redis: RedisConfig{
			Address:   v.GetString("redis.address"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.keyPrefix"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("mongo.uri"),
			Database:   v.GetString("mongo.database"),
			Collection: v.GetString("mongo.collection"),
		},
		Scheduler: SchedulerConfig{
			CheckInterval:   v.GetDuration("scheduler.checkInterval"),
			NotificationTTL: v.GetDuration("scheduler.notificationTTL"),
		},
		Broadcast: BroadcastConfig{
			Driver:         strings.ToLower(v.GetString("broadcast.driver")),
			SendgridApiKey: v.GetString("broadcast.sendgridApiKey"),
			FromEmail:      v.GetString("broadcast.fromEmail"),
			FromName:       v.GetString("broadcast.fromName"),
			Recipients:     v.GetStringSlice("broadcast.recipients"),
			TelegramToken:  v.GetString("broadcast.telegramToken"),
			TelegramChatID: v.GetInt64("broadcast.telegramChatId"),
		},
	}
}

// NewTestConfig returns a configuration suitable for tests: in-memory storage, console broadcasts, no login gate.
func NewTestConfig() *Config {
	return &Config{
		Env:      "TEST",
		Build:    "test",
		Debug:    false,
		TestMode: true,
		AppName:  "Jyoti Portal",
		Server:   ServerConfig{Address: ":0", ShutdownTimeout: time.Second, DisableReqLogs: true},
		Auth:     AuthConfig{SecretKey: "secret", TokenTTL: time.Hour},
		Storage:  StorageConfig{Driver: "memory"},
		Scheduler: SchedulerConfig{
			CheckInterval:   30 * time.Second,
			NotificationTTL: 8 * time.Second,
		},
		Broadcast: BroadcastConfig{Driver: "console"},
	}
}
