package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable prefix, e.g. OVERLAY_DISPLAY_LANGUAGE.
const envPrefix = "OVERLAY"

const (
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultQuiesceInterval = 1000 * time.Millisecond
	DefaultLanguage        = "enUS"
)

type Config struct {
	Display Display `mapstructure:"display"`
	Monitor Monitor `mapstructure:"monitor"`
	Storage Storage `mapstructure:"storage"`
	Server  Server  `mapstructure:"server"`
	Logging Logging `mapstructure:"logging"`
}

// Display is the global display configuration read by card resolution and
// presentation snapshots. The core never writes it.
type Display struct {
	Language             string   `mapstructure:"language"`
	AlternativeLanguages []string `mapstructure:"alternative_languages"`
	RarityCardFrames     bool     `mapstructure:"rarity_card_frames"`
	RarityCardGems       bool     `mapstructure:"rarity_card_gems"`
	Theme                string   `mapstructure:"theme"`
	TextColor            string   `mapstructure:"text_color"`
}

type Monitor struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	QuiesceInterval time.Duration `mapstructure:"quiesce_interval"`
	ProcessName     string        `mapstructure:"process_name"`
}

type Storage struct {
	DatabasePath string `mapstructure:"database_path"`
	ArtDir       string `mapstructure:"art_dir"`
}

type Server struct {
	Addr     string `mapstructure:"addr"`
	AdminKey string `mapstructure:"admin_key"`
}

type Logging struct {
	Mode  string `mapstructure:"mode"`
	Debug bool   `mapstructure:"debug"`
}

// Loader merges defaults, an optional YAML file and OVERLAY_* environment variables.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("display.language", DefaultLanguage)
	v.SetDefault("display.alternative_languages", []string{})
	v.SetDefault("display.rarity_card_frames", false)
	v.SetDefault("display.rarity_card_gems", false)
	v.SetDefault("display.theme", "classic")
	v.SetDefault("display.text_color", "#FFFFFF")
	v.SetDefault("monitor.poll_interval", DefaultPollInterval)
	v.SetDefault("monitor.quiesce_interval", DefaultQuiesceInterval)
	v.SetDefault("monitor.process_name", "Hearthstone")
	v.SetDefault("storage.database_path", "data/cards.db")
	v.SetDefault("storage.art_dir", "data/card_art")
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.admin_key", "")
	v.SetDefault("logging.mode", "dev")
	v.SetDefault("logging.debug", false)

	return &Loader{v: v}
}

// Load reads configFile if given; a missing file is not an error.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg.withDefaults(), nil
}

// withDefaults repairs zero values an explicit file or env var may have introduced.
func (c *Config) withDefaults() *Config {
	if c.Monitor.PollInterval <= 0 {
		c.Monitor.PollInterval = DefaultPollInterval
	}
	if c.Monitor.QuiesceInterval < 0 {
		c.Monitor.QuiesceInterval = DefaultQuiesceInterval
	}
	if strings.TrimSpace(c.Display.Language) == "" {
		c.Display.Language = DefaultLanguage
	}
	c.Display.AlternativeLanguages = splitLanguages(c.Display.AlternativeLanguages)
	return c
}

// splitLanguages accepts both list values and a single comma separated env string.
func splitLanguages(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
