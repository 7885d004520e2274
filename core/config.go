package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug        bool
	TestMode     bool
	Env          string // DEV (local; default), TEST, QA, PROD
	Build        string
	AppName      string
	RollbarToken string

	API struct {
		// BaseURL is the single configured backend endpoint; there are no
		// per-request fallback URLs.
		BaseURL string
	}

	Session struct {
		// File holds the persisted session entries (token, userType, user).
		File string
	}

	// LoginRedirectDelay is how long the landing/login surface waits before
	// sending an already-authenticated viewer to their dashboard.
	LoginRedirectDelay time.Duration
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Uniport")
	conf.SetDefault("build", "develop")
	conf.SetDefault("apiBaseURL", "http://localhost:3000")
	conf.SetDefault("sessionFile", defaultSessionFile())
	conf.SetDefault("loginRedirectDelay", 750*time.Millisecond)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:              conf.GetBool("debug"),
		TestMode:           conf.GetBool("testMode"),
		Env:                env,
		Build:              conf.GetString("build"),
		AppName:            conf.GetString("appName"),
		RollbarToken:       conf.GetString("rollbarToken"),
		LoginRedirectDelay: conf.GetDuration("loginRedirectDelay"),
	}
	c.API.BaseURL = strings.TrimRight(conf.GetString("apiBaseURL"), "/")
	c.Session.File = conf.GetString("sessionFile")
	return c
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, _ = os.Getwd()
	}
	return filepath.Join(dir, "uniport", "session.json")
}
