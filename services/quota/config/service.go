package config

import "github.com/opengovern/linkhub/pkg/koanf"

const (
	MarkerStorePostgres = "postgres"
	MarkerStoreRedis    = "redis"
)

type WarningConfig struct {
	// MarkerStore selects where quota-warning markers are kept: "postgres" or "redis".
	MarkerStore string `json:"markerStore" koanf:"marker_store"`
	AppURL      string `json:"appUrl" koanf:"app_url"`
}

type QuotaConfig struct {
	Postgres koanf.Postgres   `json:"postgres,omitempty" koanf:"postgres"`
	Http     koanf.HttpServer `json:"http,omitempty" koanf:"http"`
	Redis    koanf.Redis      `json:"redis,omitempty" koanf:"redis"`
	Nats     koanf.Nats       `json:"nats,omitempty" koanf:"nats"`
	Email    koanf.Email      `json:"email,omitempty" koanf:"email"`
	Warning  WarningConfig    `json:"warning,omitempty" koanf:"warning"`
}

func Default() QuotaConfig {
	return QuotaConfig{
		Postgres: koanf.Postgres{
			Port:    "5432",
			SSLMode: "disable",
		},
		Http: koanf.HttpServer{
			Address: "localhost:8000",
		},
		Nats: koanf.Nats{
			Subject: "linkhub.quota",
		},
		Warning: WarningConfig{
			MarkerStore: MarkerStorePostgres,
		},
	}
}
