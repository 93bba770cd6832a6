package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GOKU_TIMEOUT=5000.
const EnvPrefix = "GOKU"

// workloadKeys may not be combined with --scenario.
var workloadKeys = []string{"target", "request-body", "headers", "clients", "iterations", "duration", "timeout", "keep-alive"}

// Config is everything the CLI resolved: the run settings plus front-end options.
type Config struct {
	Settings   *Settings
	Scenario   string
	JSONOutput bool
	Tracing    TracingConfig
}

// Loader handles loading configuration from files, environment and command-line arguments.
type Loader struct{}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// FromFlags resolves a Config from an already parsed flag set. Environment
// variables fill in anything not given on the command line.
func (Loader) FromFlags(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, &ConfigError{Err: err}
	}

	cfg := &Config{
		JSONOutput: v.GetBool("json-output"),
		Tracing: TracingConfig{
			Endpoint:   strings.TrimSpace(v.GetString("otlp-endpoint")),
			Protocol:   strings.ToLower(strings.TrimSpace(v.GetString("otlp-protocol"))),
			Insecure:   v.GetBool("otlp-insecure"),
			Propagate:  v.GetBool("trace-propagate"),
			SampleRate: v.GetFloat64("trace-sample-rate"),
		},
	}

	if v.IsSet("iterations") && v.IsSet("duration") {
		return nil, configErrorf("--iterations", "cannot be used with --duration")
	}

	var (
		settings *Settings
		err      error
	)
	if scenario := strings.TrimSpace(v.GetString("scenario")); scenario != "" {
		if conflicts := setKeys(v, workloadKeys); len(conflicts) > 0 {
			return nil, configErrorf("--scenario", "cannot be used with --%s", strings.Join(conflicts, ", --"))
		}
		settings, err = LoadScenario(scenario)
		if err != nil {
			return nil, err
		}
		cfg.Scenario = scenario
		if v.GetBool("verbose") {
			settings.Verbose = true
		}
	} else {
		settings, err = settingsFromViper(v, fs)
		if err != nil {
			return nil, err
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Tracing.Validate(); err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func settingsFromViper(v *viper.Viper, fs *pflag.FlagSet) (*Settings, error) {
	if !v.IsSet("target") || strings.TrimSpace(v.GetString("target")) == "" {
		return nil, configErrorf("--target", "target is required unless --scenario is given")
	}

	s := &Settings{
		Clients:   v.GetInt("clients"),
		Requests:  v.GetInt("iterations"),
		Target:    strings.TrimSpace(v.GetString("target")),
		KeepAlive: v.GetInt64("keep-alive"),
		Duration:  v.GetInt64("duration"),
		Verbose:   v.GetBool("verbose"),
		Timeout:   v.GetInt64("timeout"),
	}

	rawHeaders, err := headerDefinitions(v, fs)
	if err != nil {
		return nil, err
	}
	if s.Headers, err = ParseHeaders(rawHeaders); err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(v.GetString("request-body")); path != "" {
		body, err := readBodyFile(path)
		if err != nil {
			return nil, err
		}
		s.Body = body
	}
	return s, nil
}

// headerDefinitions reads repeated --headers values verbatim. viper would
// CSV-split them, which breaks values containing commas. GOKU_HEADERS holds
// one header per line since values may contain spaces.
func headerDefinitions(v *viper.Viper, fs *pflag.FlagSet) ([]string, error) {
	if fs != nil && fs.Changed("headers") {
		raw, err := fs.GetStringArray("headers")
		if err != nil {
			return nil, &ConfigError{Input: "--headers", Err: err}
		}
		return raw, nil
	}
	if !v.IsSet("headers") {
		return nil, nil
	}
	var raw []string
	for _, line := range strings.Split(os.Getenv(EnvPrefix+"_HEADERS"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			raw = append(raw, line)
		}
	}
	return raw, nil
}

func readBodyFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &ConfigError{Input: path, Err: fmt.Errorf("failed to read request body: %w", err)}
	}
	if info.IsDir() {
		return "", configErrorf(path, "request body %q is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ConfigError{Input: path, Err: fmt.Errorf("failed to read request body: %w", err)}
	}
	return string(data), nil
}

func setKeys(v *viper.Viper, keys []string) []string {
	var set []string
	for _, k := range keys {
		if v.IsSet(k) {
			set = append(set, k)
		}
	}
	return set
}
