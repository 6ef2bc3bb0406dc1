package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config reúne a configuração do processo, lida das variáveis de
// ambiente.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load lê e valida a configuração do ambiente.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("falha ao ler configuração do ambiente: %w", err)
	}
	return cfg, nil
}
