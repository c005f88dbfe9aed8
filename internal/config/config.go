package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "DILIGENCE_SCANNER_CONFIG"
	cohereAPIKeyEnv   = "COHERE_API_KEY"
	cohereModelEnv    = "COHERE_MODEL"
	cohereEndpointEnv = "COHERE_ENDPOINT"
)

// Config holds high-level settings required across the application.
// The resolved value is echoed verbatim into the run's config.json,
// so JSON tags define the manifest schema (credentials excluded).
type Config struct {
	Model   ModelConfig   `yaml:"model" json:"model"`
	Rules   RulesConfig   `yaml:"rules" json:"rules"`
	Run     RunConfig     `yaml:"run" json:"run"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ModelConfig defines how to contact the text-generation backend.
type ModelConfig struct {
	Provider    string  `yaml:"provider" json:"provider"`
	Model       string  `yaml:"model" json:"model"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	APIKey      string  `yaml:"apiKey" json:"-"`
}

// RulesConfig carries the numeric-mismatch thresholds.
type RulesConfig struct {
	AUMTolerancePct float64 `yaml:"aumTolerancePct" json:"aum_tolerance_pct"` // fraction, 0.03 = 3%
	MgmtFeeAbsPct   float64 `yaml:"mgmtFeeAbsPct" json:"mgmt_fee_abs_pct"`    // percentage points
	TargetIRRAbsPct float64 `yaml:"targetIrrAbsPct" json:"target_irr_abs_pct"`
}

// RunConfig controls extractor selection, caching, and the enabled rule set.
type RunConfig struct {
	UseCohere     bool     `yaml:"useCohere" json:"use_cohere"`
	CacheDir      string   `yaml:"cacheDir" json:"cache_dir"`
	PromptsDir    string   `yaml:"promptsDir" json:"prompts_dir"`
	ExtractPrompt string   `yaml:"extractPrompt" json:"extract_prompt"`
	MemoPrompt    string   `yaml:"memoPrompt" json:"memo_prompt"`
	Rules         []string `yaml:"rules" json:"rules"`
}

// LoggingConfig selects console verbosity.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An empty path falls back to the DILIGENCE_SCANNER_CONFIG
// environment variable, then to defaults.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Run.Rules) == 0 {
		cfg.Run.Rules = defaultConfig().Run.Rules
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(cohereAPIKeyEnv); v != "" {
		c.Model.APIKey = v
	}

	if v := os.Getenv(cohereModelEnv); v != "" {
		c.Model.Model = v
	}

	if v := os.Getenv(cohereEndpointEnv); v != "" {
		c.Model.Endpoint = v
	}
}

func defaultConfig() Config {
	return Config{
		Model: ModelConfig{
			Provider:    "cohere",
			Model:       "command-r-plus",
			Temperature: 0.0,
			Endpoint:    "https://api.cohere.com/v1/chat",
		},
		Rules: RulesConfig{
			AUMTolerancePct: 0.03,
			MgmtFeeAbsPct:   0.25,
			TargetIRRAbsPct: 2.0,
		},
		Run: RunConfig{
			UseCohere:     true,
			CacheDir:      ".cache",
			PromptsDir:    "prompts",
			ExtractPrompt: "extract_v1.txt",
			MemoPrompt:    "memo_v1.txt",
			Rules:         []string{"numeric_mismatch", "definition_drift"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
