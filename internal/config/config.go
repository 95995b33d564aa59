package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"fpl-squad-lab/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Storage struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
		UseMemory     bool   `yaml:"use_memory"`
	} `yaml:"storage"`
	Rules struct {
		BudgetCap         float64 `yaml:"budget_cap"`
		MaxPerClub        int     `yaml:"max_per_club"`
		FreeTransferCap   int     `yaml:"free_transfer_cap"`
		TransferPenalty   int     `yaml:"transfer_penalty"`
		CaptainMultiplier int     `yaml:"captain_multiplier"`
	} `yaml:"rules"`
	Builder struct {
		BeamWidth   int `yaml:"beam_width"`
		PoolSize    int `yaml:"pool_size"`
		MaxResults  int `yaml:"max_results"`
		Parallelism int `yaml:"parallelism"`
	} `yaml:"builder"`
	Planner struct {
		InitialFreeTransfers int `yaml:"initial_free_transfers"`
	} `yaml:"planner"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("USE_MEMORY_STORAGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.UseMemory = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BEAM_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Builder.BeamWidth = n
		}
	}

	// Defaults
	rules := domain.DefaultRules()
	if cfg.Rules.BudgetCap == 0 {
		cfg.Rules.BudgetCap = rules.BudgetCap
	}
	if cfg.Rules.MaxPerClub == 0 {
		cfg.Rules.MaxPerClub = rules.MaxPerClub
	}
	if cfg.Rules.FreeTransferCap == 0 {
		cfg.Rules.FreeTransferCap = rules.FreeTransferCap
	}
	if cfg.Rules.TransferPenalty == 0 {
		cfg.Rules.TransferPenalty = rules.TransferPenalty
	}
	if cfg.Rules.CaptainMultiplier == 0 {
		cfg.Rules.CaptainMultiplier = rules.CaptainMultiplier
	}
	if cfg.Builder.BeamWidth == 0 {
		cfg.Builder.BeamWidth = 200
	}
	if cfg.Builder.MaxResults == 0 {
		cfg.Builder.MaxResults = 50
	}
	if cfg.Builder.Parallelism == 0 {
		cfg.Builder.Parallelism = 1
	}
	if cfg.Planner.InitialFreeTransfers == 0 {
		cfg.Planner.InitialFreeTransfers = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// GameRules builds the game rules from configured values. Squad quotas are
// fixed; only the scalar limits are tunable.
func (c *Config) GameRules() domain.Rules {
	rules := domain.DefaultRules()
	rules.BudgetCap = c.Rules.BudgetCap
	rules.MaxPerClub = c.Rules.MaxPerClub
	rules.FreeTransferCap = c.Rules.FreeTransferCap
	rules.TransferPenalty = c.Rules.TransferPenalty
	rules.CaptainMultiplier = c.Rules.CaptainMultiplier
	return rules
}

// Validate checks that storage settings are usable.
func (c *Config) Validate() error {
	if !c.Storage.UseMemory {
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required unless use_memory is set")
		}
		if c.Storage.ClickhouseDSN == "" {
			return fmt.Errorf("storage.clickhouse_dsn is required unless use_memory is set")
		}
	}
	if c.Rules.BudgetCap <= 0 {
		return fmt.Errorf("rules.budget_cap must be positive")
	}
	if c.Rules.CaptainMultiplier < 1 {
		return fmt.Errorf("rules.captain_multiplier must be at least 1")
	}
	return nil
}
