package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mstepanek/rollcall/internal/extract"
	"github.com/mstepanek/rollcall/internal/llm"
	"github.com/mstepanek/rollcall/internal/model"
	"github.com/mstepanek/rollcall/internal/store"
	"github.com/mstepanek/rollcall/internal/worker"
)

// buildConfig assembles the effective configuration: defaults overlaid with
// the config file and ROLLCALL_* environment variables viper has read.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid config values ignored: %v\n", err)
	}
	cfg.Output.Verbose = verbose
	return cfg
}

// newTrace returns a stderr trace function when verbose mode is on, nil
// otherwise.
func newTrace() extract.TraceFunc {
	if !verbose {
		return nil
	}
	return func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// resolveAPIKey fills cfg.LLM.APIKey from the environment when unset.
func resolveAPIKey(cfg *model.Config) error {
	if cfg.LLM.Provider == "" || cfg.LLM.APIKey != "" {
		return nil
	}
	for _, env := range []string{"GROQ_API_KEY", "OPENAI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			cfg.LLM.APIKey = key
			return nil
		}
	}
	return fmt.Errorf("no API key: set GROQ_API_KEY or OPENAI_API_KEY, or llm.api_key in config")
}

// buildMapper wires the LLM mapping producer: shared rate limiter, provider,
// learning store. Returns a nil mapper when no provider is configured.
func buildMapper(cfg *model.Config) (*llm.Mapper, *store.Store, error) {
	var learner *store.Store
	if cfg.Store.Enabled {
		learner = store.New(cfg.Store.Path, cfg.Store.MemoryTTL)
	}

	if cfg.LLM.Provider == "" {
		return nil, learner, nil
	}
	if err := resolveAPIKey(cfg); err != nil {
		return nil, learner, err
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM), limiter)
	if err != nil {
		return nil, learner, fmt.Errorf("init LLM provider: %w", err)
	}
	if provider == nil {
		return nil, learner, nil
	}

	var learnerIface llm.Learner
	if learner != nil {
		learnerIface = learner
	}
	return llm.NewMapper(provider, learnerIface, newTrace()), learner, nil
}

// loadMappingFile reads a mapping file in the wire form
// {"Field Name": ["SheetName,ColumnName", ...]}.
func loadMappingFile(path string) (model.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}
	return model.ParseMapping(raw), nil
}

// writeMappingFile saves a mapping in the wire form.
func writeMappingFile(path string, mapping model.FieldMapping) error {
	data, err := json.MarshalIndent(mapping.Wire(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	return nil
}
