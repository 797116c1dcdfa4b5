package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	StrategyDir string    `yaml:"strategy-dir" env:"STRATEGY_DIR" env-default:"./data/strategies"`
	Redis       Redis     `yaml:"redis"`
	Synthesis   Synthesis `yaml:"synthesis"`
	Play        Play      `yaml:"play"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Synthesis struct {
	// Workers bounds the goroutines of one fixpoint pass; zero means GOMAXPROCS.
	Workers     int    `yaml:"workers" env:"SYNTHESIS_WORKERS" env-default:"0"`
	MetricsFile string `yaml:"metrics-file" env:"SYNTHESIS_METRICS_FILE"`
}

type Play struct {
	Policy string `yaml:"policy" env:"PLAY_POLICY" env-default:"prefer-win"`
}

// MustLoad - load all configurations in config.yml file, or from the
// environment alone when the file does not exist.
func MustLoad(path string) *Config {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			panic(fmt.Errorf("unable to load config from environment: %w", err))
		}
	case err != nil:
		panic(fmt.Errorf("unable to stat config file: %w", err))
	default:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			panic(fmt.Errorf("unable to load config file: %w", err))
		}
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
