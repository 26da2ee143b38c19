package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"envitrack/internal/logging"
	"envitrack/internal/version"
)

// DefaultStoreURL is the placeholder database URL used when none is configured.
const DefaultStoreURL = "https://YOUR-PROJECT-ID-default-rtdb.firebaseio.com"

var validate = validator.New()

// Config materialises application configuration.
type Config struct {
	App        AppConfig       `mapstructure:"app"`
	Logging    logging.Config  `mapstructure:"logging"`
	Store      StoreConfig     `mapstructure:"store"`
	Monitor    MonitorConfig   `mapstructure:"monitor"`
	Thresholds Thresholds      `mapstructure:"thresholds"`
	Visualize  VisualizeConfig `mapstructure:"visualize"`
	Export     ExportConfig    `mapstructure:"export"`
	Metrics    MetricsConfig   `mapstructure:"metrics"`

	// Warnings lists values that could not be parsed and were replaced by defaults.
	Warnings []string `mapstructure:"-"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name string `mapstructure:"name"`
}

// StoreConfig describes the remote sensor datastore.
type StoreConfig struct {
	URL       string        `mapstructure:"url" validate:"required"`
	AuthToken string        `mapstructure:"auth_token"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent string        `mapstructure:"user_agent"`
}

// MonitorConfig governs the polling cadence.
type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

// Thresholds is the static min/max bound set per metric. It is loaded once
// at startup and handed to whatever needs it.
type Thresholds struct {
	TempMin       float64 `mapstructure:"temp_min" validate:"ltefield=TempMax"`
	TempMax       float64 `mapstructure:"temp_max"`
	HumidityMin   float64 `mapstructure:"humidity_min" validate:"ltefield=HumidityMax"`
	HumidityMax   float64 `mapstructure:"humidity_max"`
	AirQualityMax float64 `mapstructure:"air_quality_max"`
}

// VisualizeConfig sets chart output behaviour.
type VisualizeConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	Hours       int    `mapstructure:"hours" validate:"gte=0"`
	Width       int    `mapstructure:"width" validate:"gte=320"`
	PanelHeight int    `mapstructure:"panel_height" validate:"gte=160"`
}

// ExportConfig sets CSV export behaviour.
type ExportConfig struct {
	CSVPath string `mapstructure:"csv_path" validate:"required"`
}

// MetricsConfig controls the optional prometheus endpoint. An empty
// listen address disables it.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// DefaultThresholds returns the built-in threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempMin:       15,
		TempMax:       35,
		HumidityMin:   30,
		HumidityMax:   80,
		AirQualityMax: 600,
	}
}

// Legacy environment names accepted alongside the prefixed ones.
var envAliases = map[string]string{
	"store.url":                  "FIREBASE_DATABASE_URL",
	"thresholds.temp_min":        "TEMP_MIN",
	"thresholds.temp_max":        "TEMP_MAX",
	"thresholds.humidity_min":    "HUMIDITY_MIN",
	"thresholds.humidity_max":    "HUMIDITY_MAX",
	"thresholds.air_quality_max": "AIR_QUALITY_MAX",
	"monitor.interval":           "CHECK_INTERVAL",
}

const envPrefix = "ENVITRACK"

// Load builds configuration from .env, file, environment, and defaults.
func Load(path string) (*Config, error) {
	// A missing or unreadable .env is not an error; defaults cover it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnvAliases(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v, path != ""); err != nil {
		return nil, err
	}

	warnings := coerce(v)

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Warnings = append(warnings, cfg.repair()...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper, explicit bool) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func bindEnvAliases(v *viper.Viper) error {
	replacer := strings.NewReplacer(".", "_")
	for key, alias := range envAliases {
		prefixed := envPrefix + "_" + strings.ToUpper(replacer.Replace(key))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "envitrack")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("store.url", DefaultStoreURL)
	v.SetDefault("store.timeout", "10s")
	v.SetDefault("store.user_agent", version.UserAgent())

	v.SetDefault("monitor.interval", "60s")

	d := DefaultThresholds()
	v.SetDefault("thresholds.temp_min", d.TempMin)
	v.SetDefault("thresholds.temp_max", d.TempMax)
	v.SetDefault("thresholds.humidity_min", d.HumidityMin)
	v.SetDefault("thresholds.humidity_max", d.HumidityMax)
	v.SetDefault("thresholds.air_quality_max", d.AirQualityMax)

	v.SetDefault("visualize.output_dir", ".")
	v.SetDefault("visualize.hours", 24)
	v.SetDefault("visualize.width", 1280)
	v.SetDefault("visualize.panel_height", 360)

	v.SetDefault("export.csv_path", "sensor_data.csv")
}

var (
	floatKeys = map[string]float64{
		"thresholds.temp_min":        DefaultThresholds().TempMin,
		"thresholds.temp_max":        DefaultThresholds().TempMax,
		"thresholds.humidity_min":    DefaultThresholds().HumidityMin,
		"thresholds.humidity_max":    DefaultThresholds().HumidityMax,
		"thresholds.air_quality_max": DefaultThresholds().AirQualityMax,
	}
	intKeys = map[string]int{
		"visualize.hours":        24,
		"visualize.width":        1280,
		"visualize.panel_height": 360,
	}
	durationKeys = map[string]time.Duration{
		"monitor.interval": 60 * time.Second,
		"store.timeout":    10 * time.Second,
	}
)

// coerce replaces values that cannot be parsed with their defaults so a
// malformed setting never stops the process. Bare numbers given for
// durations are read as seconds.
func coerce(v *viper.Viper) []string {
	var warnings []string

	for key, def := range floatKeys {
		raw := v.Get(key)
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: cannot parse %q, using %v", key, fmt.Sprint(raw), def))
			f = def
		}
		v.Set(key, f)
	}

	for key, def := range intKeys {
		raw := v.Get(key)
		n, err := cast.ToIntE(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: cannot parse %q, using %d", key, fmt.Sprint(raw), def))
			n = def
		}
		v.Set(key, n)
	}

	for key, def := range durationKeys {
		raw := v.Get(key)
		d, err := toDuration(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: cannot parse %q, using %s", key, fmt.Sprint(raw), def))
			d = def
		}
		v.Set(key, d)
	}

	return warnings
}

func toDuration(raw any) (time.Duration, error) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if secs, err := cast.ToFloat64E(s); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return time.ParseDuration(s)
	}
	return cast.ToDurationE(raw)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// fieldDefaults restores one field, keyed by validator struct namespace,
// to its built-in value.
var fieldDefaults = map[string]func(c *Config){
	"Config.Store.URL":        func(c *Config) { c.Store.URL = DefaultStoreURL },
	"Config.Store.Timeout":    func(c *Config) { c.Store.Timeout = durationKeys["store.timeout"] },
	"Config.Monitor.Interval": func(c *Config) { c.Monitor.Interval = durationKeys["monitor.interval"] },
	"Config.Thresholds.TempMin": func(c *Config) {
		d := DefaultThresholds()
		c.Thresholds.TempMin, c.Thresholds.TempMax = d.TempMin, d.TempMax
	},
	"Config.Thresholds.HumidityMin": func(c *Config) {
		d := DefaultThresholds()
		c.Thresholds.HumidityMin, c.Thresholds.HumidityMax = d.HumidityMin, d.HumidityMax
	},
	"Config.Visualize.Hours":       func(c *Config) { c.Visualize.Hours = intKeys["visualize.hours"] },
	"Config.Visualize.Width":       func(c *Config) { c.Visualize.Width = intKeys["visualize.width"] },
	"Config.Visualize.PanelHeight": func(c *Config) { c.Visualize.PanelHeight = intKeys["visualize.panel_height"] },
	"Config.Export.CSVPath":        func(c *Config) { c.Export.CSVPath = "sensor_data.csv" },
}

// repair resets every field the validator rejects to its default and
// returns one warning per reset. Out-of-range settings never stop startup.
func (c *Config) repair() []string {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	var warnings []string
	for _, fe := range fieldErrs {
		reset, ok := fieldDefaults[fe.StructNamespace()]
		if !ok {
			continue
		}
		reset(c)
		warnings = append(warnings, fmt.Sprintf("%s: value %v fails %q, using default",
			fe.StructNamespace(), fe.Value(), fe.Tag()))
	}
	return warnings
}

// Validate performs sanity checks on the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
