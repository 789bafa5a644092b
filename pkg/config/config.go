// Package config builds the explicit runtime configuration of skillchat from
// environment variables, an optional config file and built-in defaults.
package config

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillchat/pkg/llm"
	"github.com/jingkaihe/skillchat/pkg/logger"
	"github.com/jingkaihe/skillchat/pkg/sysprompt"
)

// Defaults.
const (
	DefaultHost           = "http://localhost:11434"
	DefaultModel          = "deepseek-r1:7b"
	DefaultSkillsDir      = "skills"
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "fmt"
)

// EnvPrefix is the prefix of the skillchat-specific environment variables.
const EnvPrefix = "SKILLCHAT"

// ollamaEnv lists the Ollama variables honored per key. They take precedence
// over SKILLCHAT_<KEY>.
var ollamaEnv = map[string]string{
	"host":    "OLLAMA_HOST",
	"model":   "OLLAMA_MODEL",
	"options": "OLLAMA_OPTIONS",
}

// envNames returns the environment variables bound to key, in precedence
// order.
func envNames(key string) []string {
	prefixed := EnvPrefix + "_" + strings.ToUpper(key)
	if name, ok := ollamaEnv[key]; ok {
		return []string{name, prefixed}
	}
	return []string{prefixed}
}

// Config is the runtime configuration. It is built once at startup and
// passed around explicitly.
type Config struct {
	Host            string         `mapstructure:"host"`
	Model           string         `mapstructure:"model"`
	Provider        string         `mapstructure:"provider"`
	APIKey          string         `mapstructure:"api_key"`
	SkillsDir       string         `mapstructure:"skills_dir"`
	SystemPrompt    string         `mapstructure:"system_prompt"`
	ConnectTimeout  time.Duration  `mapstructure:"connect_timeout"`
	RequestTimeout  time.Duration  `mapstructure:"request_timeout"`
	HistoryMessages int            `mapstructure:"history_messages"`
	RenderMarkdown  bool           `mapstructure:"render_markdown"`
	Quiet           bool           `mapstructure:"quiet"`
	LogLevel        string         `mapstructure:"log_level"`
	LogFormat       string         `mapstructure:"log_format"`
	Options         map[string]any `mapstructure:"-"`
}

// NewViper returns a viper instance wired with skillchat's defaults, env
// bindings and config file search paths. The config file is optional.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	keys := append(v.AllKeys(), "options")
	for _, key := range keys {
		if err := v.BindEnv(append([]string{key}, envNames(key)...)...); err != nil {
			return nil, errors.Wrapf(err, "failed to bind environment for %s", key)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.skillchat")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	return v, nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", DefaultHost)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("provider", llm.ProviderOllama)
	v.SetDefault("api_key", "")
	v.SetDefault("skills_dir", DefaultSkillsDir)
	v.SetDefault("system_prompt", sysprompt.DefaultBase)
	v.SetDefault("connect_timeout", DefaultConnectTimeout)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("history_messages", 0)
	v.SetDefault("render_markdown", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
}

// Load decodes v into a Config. Malformed model options are logged and
// ignored; every other problem is reported by Validate.
func Load(ctx context.Context, v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config decoder")
	}

	settings := make(map[string]any)
	for _, key := range v.AllKeys() {
		if key == "options" {
			continue
		}
		settings[key] = v.Get(key)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	cfg.Host = normalizeHost(cfg.Host)

	options, err := parseOptions(v.Get("options"))
	if err != nil {
		logger.G(ctx).WithError(err).Warn("ignoring invalid model options")
	} else {
		cfg.Options = options
	}

	return cfg, nil
}

// normalizeHost accepts the scheme-less form OLLAMA_HOST is often set to.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}

// parseOptions accepts either a JSON object string (as from OLLAMA_OPTIONS)
// or a map from the config file.
func parseOptions(raw any) (map[string]any, error) {
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if value == "" {
			return nil, nil
		}
		var options map[string]any
		if err := json.Unmarshal([]byte(value), &options); err != nil {
			return nil, errors.Wrap(err, "model options must be a JSON object")
		}
		return options, nil
	case map[string]any:
		return value, nil
	default:
		return nil, errors.Errorf("unsupported model options type %T", raw)
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Provider {
	case llm.ProviderOllama, llm.ProviderOpenAI:
	default:
		result = multierror.Append(result, errors.Errorf("unsupported provider %q", c.Provider))
	}

	if u, err := url.Parse(c.Host); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, errors.Errorf("invalid host %q", c.Host))
	}
	if c.Model == "" {
		result = multierror.Append(result, errors.New("model must not be empty"))
	}
	if c.ConnectTimeout <= 0 {
		result = multierror.Append(result, errors.Errorf("connect_timeout must be positive, got %s", c.ConnectTimeout))
	}
	if c.RequestTimeout <= 0 {
		result = multierror.Append(result, errors.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.HistoryMessages < 0 {
		result = multierror.Append(result, errors.Errorf("history_messages must not be negative, got %d", c.HistoryMessages))
	}

	return result.ErrorOrNil()
}

// LLMOptions returns the client options derived from c.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		Provider:       c.Provider,
		Host:           c.Host,
		Model:          c.Model,
		APIKey:         c.APIKey,
		ConnectTimeout: c.ConnectTimeout,
		RequestTimeout: c.RequestTimeout,
		ModelOptions:   c.Options,
	}
}
