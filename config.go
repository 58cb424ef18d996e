package qsim

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

/*
Config is handed to the engine before any StateVector is allocated.
Precision fixes the element width of every vector the engine creates,
Workers sizes the pool, and MinChunk is the smallest number of amplitude
groups worth handing to a worker; anything smaller runs inline.
*/
type Config struct {
	Precision Precision
	Workers   int
	MinChunk  int
}

func NewConfig() *Config {
	return &Config{
		Precision: Double,
		Workers:   runtime.NumCPU(),
		MinChunk:  1 << 12,
	}
}

/*
LoadConfig reads precision, workers and min_chunk from v, falling back to the
defaults of NewConfig. Environment variables prefixed QSIM_ take part, e.g.
QSIM_PRECISION=single.
*/
func LoadConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := NewConfig()
	v.SetDefault("precision", defaults.Precision.String())
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("min_chunk", defaults.MinChunk)

	v.SetEnvPrefix("qsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	precision, err := ParsePrecision(v.GetString("precision"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Precision: precision,
		Workers:   v.GetInt("workers"),
		MinChunk:  v.GetInt("min_chunk"),
	}

	if config.Workers < 1 {
		return nil, errors.Errorf("workers must be at least 1, got %d", config.Workers)
	}
	if config.MinChunk < 1 {
		return nil, errors.Errorf("min_chunk must be at least 1, got %d", config.MinChunk)
	}

	return config, nil
}
