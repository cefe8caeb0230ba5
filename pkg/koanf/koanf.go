package koanf

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	delimiter = "."
	separator = "__"
)

type Postgres struct {
	Host     string `json:"host,omitempty" koanf:"host"`
	Port     string `json:"port,omitempty" koanf:"port"`
	DB       string `json:"db,omitempty" koanf:"db"`
	Username string `json:"username,omitempty" koanf:"username"`
	Password string `json:"password,omitempty" koanf:"password"`
	SSLMode  string `json:"sslMode,omitempty" koanf:"ssl_mode"`
}

type HttpServer struct {
	Address string `json:"address,omitempty" koanf:"address"`
}

type Redis struct {
	Address  string `json:"address,omitempty" koanf:"address"`
	Password string `json:"password,omitempty" koanf:"password"`
	DB       int    `json:"db,omitempty" koanf:"db"`
}

type Nats struct {
	URL     string `json:"url,omitempty" koanf:"url"`
	Subject string `json:"subject,omitempty" koanf:"subject"`
}

type Email struct {
	APIKey     string `json:"apiKey,omitempty" koanf:"api_key"`
	Sender     string `json:"sender,omitempty" koanf:"sender"`
	SenderName string `json:"senderName,omitempty" koanf:"sender_name"`
}

// Load reads configuration for the named service from, in increasing priority: the given defaults,
// an optional TOML file pointed to by <NAME>_CONFIG_FILE and <NAME>_ prefixed environment variables.
// Nested keys use a double underscore, e.g. QUOTA_POSTGRES__HOST.
func Load[T any](name string, def T) (T, error) {
	k := koanf.New(delimiter)

	if err := k.Load(structs.Provider(def, "koanf"), nil); err != nil {
		return def, fmt.Errorf("load defaults: %w", err)
	}

	prefix := strings.ToUpper(name) + "_"

	if path := os.Getenv(prefix + "CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return def, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(prefix, delimiter, func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), separator, delimiter)
	}), nil); err != nil {
		return def, fmt.Errorf("load env: %w", err)
	}

	var cnf T
	if err := k.UnmarshalWithConf("", &cnf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return def, fmt.Errorf("unmarshal config: %w", err)
	}

	return cnf, nil
}

// Provide is Load for process start-up, where a broken configuration is fatal.
func Provide[T any](name string, def T) T {
	cnf, err := Load(name, def)
	if err != nil {
		panic(err)
	}

	return cnf
}
