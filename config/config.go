// Package config loads runtime configuration: environment settings for
// the OpenAI-backed oracle, and optional YAML overrides for frame
// parameters.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"epistemic-agents-core/epistemology"
)

// Config carries the settings the surrounding runtime wires the engine up
// with.
type Config struct {
	OpenAIAPIKey            string
	OracleModel             string
	OracleRequestsPerSecond float64
	OracleBurst             int
	FrameOverridesPath      string
}

// Load reads configuration from the environment, after loading a local
// .env file if one exists. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OracleModel:        os.Getenv("ORACLE_MODEL"),
		FrameOverridesPath: os.Getenv("FRAME_OVERRIDES_PATH"),
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	if v := os.Getenv("ORACLE_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ORACLE_REQUESTS_PER_SECOND: %w", err)
		}
		cfg.OracleRequestsPerSecond = rps
	}
	if v := os.Getenv("ORACLE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ORACLE_BURST: %w", err)
		}
		cfg.OracleBurst = burst
	}
	return cfg, nil
}

// FrameOverrides maps a frame variant name to parameter overrides applied
// on top of the variant's defaults.
type FrameOverrides map[string]map[string]float64

// LoadFrameOverrides parses a YAML document of per-variant parameter
// overrides and rejects unknown variants or parameter keys.
func LoadFrameOverrides(path string) (FrameOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading frame overrides: %w", err)
	}
	return ParseFrameOverrides(data)
}

// ParseFrameOverrides validates raw YAML override content.
func ParseFrameOverrides(data []byte) (FrameOverrides, error) {
	var overrides FrameOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("error parsing frame overrides: %w", err)
	}
	for variant, params := range overrides {
		if _, err := epistemology.NewByName(variant); err != nil {
			return nil, err
		}
		for key := range params {
			if !epistemology.IsKnownParameter(key) {
				return nil, fmt.Errorf("unknown frame parameter %q for variant %q", key, variant)
			}
		}
	}
	return overrides, nil
}

// Apply returns the frame with its variant's overrides merged in, or the
// frame unchanged when no overrides name its variant.
func (fo FrameOverrides) Apply(frame *epistemology.Frame) *epistemology.Frame {
	params, ok := fo[string(frame.Kind)]
	if !ok {
		return frame
	}
	return frame.WithParameters(params)
}
