package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input     InputConfig     `yaml:"input" mapstructure:"input"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	ViaCEP    ViaCEPConfig    `yaml:"viacep" mapstructure:"viacep"`
	Address   AddressConfig   `yaml:"address" mapstructure:"address"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the roster to validate.
type InputConfig struct {
	Path        string `yaml:"path" mapstructure:"path" validate:"required"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	ColumnsFile string `yaml:"columns_file" mapstructure:"columns_file"`
}

// ReferenceConfig locates the reference system export.
type ReferenceConfig struct {
	Path   string `yaml:"path" mapstructure:"path" validate:"required"`
	Sheet  string `yaml:"sheet" mapstructure:"sheet"`
	Column string `yaml:"column" mapstructure:"column" validate:"required"`
}

// OutputConfig locates the run outputs.
type OutputConfig struct {
	InvalidPath string `yaml:"invalid_path" mapstructure:"invalid_path" validate:"required"`
	JSONPath    string `yaml:"json_path" mapstructure:"json_path" validate:"required"`
	MetricsPath string `yaml:"metrics_path" mapstructure:"metrics_path"`
}

// ViaCEPConfig configures the postal-code lookup client. MaxAttempts above
// 1 retries transient failures; the default of 1 treats the first failure
// as final.
type ViaCEPConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts" validate:"min=1,max=10"`
}

// AddressConfig configures address reconciliation.
type AddressConfig struct {
	FoldAccents bool `yaml:"fold_accents" mapstructure:"fold_accents"`
}

// RulesConfig configures record validation.
type RulesConfig struct {
	MinAge int `yaml:"min_age" mapstructure:"min_age" validate:"min=0,max=150"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentLookups int `yaml:"max_concurrent_lookups" mapstructure:"max_concurrent_lookups" validate:"min=1,max=256"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.path", "dados.xlsx")
	v.SetDefault("reference.path", "sistema.xlsx")
	v.SetDefault("reference.column", "cpf")
	v.SetDefault("output.invalid_path", "clientes_invalidos.xlsx")
	v.SetDefault("output.json_path", "clientes_para_subir.json")
	v.SetDefault("viacep.base_url", "https://viacep.com.br/ws")
	v.SetDefault("viacep.timeout_secs", 10)
	v.SetDefault("viacep.rate_limit", 5)
	v.SetDefault("viacep.max_attempts", 1)
	v.SetDefault("address.fold_accents", false)
	v.SetDefault("rules.min_age", 18)
	v.SetDefault("batch.max_concurrent_lookups", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks field constraints. Flags may override loaded values, so
// callers validate after applying them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
