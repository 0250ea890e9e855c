package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const (
	DefaultEnvFile = ".env"
	envPrefix      = "BACKUPCHECK_"
)

type Config struct {
	CredentialsPath string
	TokenPath       string
	ClientsPath     string
	OutputPath      string
	// HistoryPath enables the run history database when set.
	HistoryPath string
	Timezone    string
	AllPages    bool
	Debug       bool
	LogFile     string
}

func Default() Config {
	return Config{
		CredentialsPath: "client_secret.json",
		TokenPath:       "token.json",
		ClientsPath:     "clientes.txt",
		OutputPath:      "relatorio_clientes.zip.xlsx",
		Timezone:        "UTC",
		LogFile:         "backup-check.log",
	}
}

// Load applies, in increasing precedence, the defaults, the variables in
// envFile (ignored when missing) and the process environment.
func Load(envFile string) (Config, error) {
	cfg := Default()

	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, errors.Wrapf(err, "failed to read %s", envFile)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := fileVars[envPrefix+key]
		return v, ok
	}

	paths := map[string]*string{
		"CREDENTIALS": &cfg.CredentialsPath,
		"TOKEN":       &cfg.TokenPath,
		"CLIENTS":     &cfg.ClientsPath,
		"OUTPUT":      &cfg.OutputPath,
		"HISTORY":     &cfg.HistoryPath,
		"TIMEZONE":    &cfg.Timezone,
		"LOG_FILE":    &cfg.LogFile,
	}
	for key, field := range paths {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}

	bools := map[string]*bool{
		"ALL_PAGES": &cfg.AllPages,
		"DEBUG":     &cfg.Debug,
	}
	for key, field := range bools {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return cfg, errors.Wrapf(err, "invalid %s%s", envPrefix, key)
			}
			*field = b
		}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.CredentialsPath == "" {
		return errors.New("credentials path is required")
	}
	if c.TokenPath == "" {
		return errors.New("token path is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the time zone in which modification days are compared.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid time zone %q", c.Timezone)
	}
	return loc, nil
}
