package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
)

const (
	DefaultPort          = 3000
	DefaultBackend       = BackendMongo
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "todolistDB"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

type Config struct {
	Port          int    `toml:"port"`
	Backend       string `toml:"backend"`
	GCPProject    string `toml:"gcp_project"`
	PubSubTopic   string `toml:"pubsub_topic"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	LogLevel      string `toml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `toml:"log_format"`
}

func Default() *Config {
	return &Config{
		Port:          DefaultPort,
		Backend:       DefaultBackend,
		MongoURI:      DefaultMongoURI,
		MongoDatabase: DefaultMongoDatabase,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// Load applies defaults, then the TOML file at path (if path is not empty),
// then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("unable to read config file %s - %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q - %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.GCPProject = v
	}
	if v := os.Getenv("PUBSUB_TOPIC"); v != "" {
		c.PubSubTopic = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.MongoURI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		c.MongoDatabase = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}

	switch c.Backend {
	case BackendMemory:
	case BackendFirestore:
		if c.GCPProject == "" {
			errs = append(errs, errors.New("firestore backend requires a gcp project"))
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			errs = append(errs, errors.New("mongo backend requires a uri and a database"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	if c.PubSubTopic != "" && c.GCPProject == "" {
		errs = append(errs, errors.New("pubsub topic requires a gcp project"))
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
