package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file name inside the config directory.
	ConfigFileName = "config.toml"
	// ConfigDirName is the directory under $XDG_CONFIG_HOME or ~/.config.
	ConfigDirName = "pst"
	// HomeConfigFile is the dotfile checked in the home directory.
	HomeConfigFile = ".pst.toml"
)

// Load reads config from the specified TOML file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Check the path passed to --load-config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid TOML")
	}

	return parseConfig(v, path)
}

// LoadReader parses TOML config from r. name is only used in messages.
func LoadReader(r io.Reader, name string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse config",
			"Check the TOML syntax in "+name)
	}
	return parseConfig(v, name)
}

// Find locates the user config file using the search order:
// 1. Explicit path (from --load-config)
// 2. $XDG_CONFIG_HOME/pst/config.toml
// 3. ~/.config/pst/config.toml
// 4. ~/.pst.toml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, ConfigDirName, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates,
			filepath.Join(home, ".config", ConfigDirName, ConfigFileName),
			filepath.Join(home, HomeConfigFile))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Resolve produces the validated config for a run. --load-config wins,
// then an explicit --use-config built-in, then a discovered user config,
// then the default built-in.
func Resolve(opt *Opt) (*Config, error) {
	var path string
	if opt.LoadConfig != "" || opt.UseConfig == "" {
		var err error
		if path, err = Find(opt.LoadConfig); err != nil {
			return nil, err
		}
	}

	var cfg *Config
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	} else {
		var ok bool
		if cfg, ok = Builtin(opt.UseConfig); !ok {
			return nil, errors.New(errors.ErrConfig,
				"Unknown built-in config '"+opt.UseConfig+"'",
				"Use --use-config default or --use-config large.")
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Generate writes the default configuration as TOML.
func Generate(w io.Writer) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(DefaultConfig()); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode default config", "")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	// Slices are replaced wholesale rather than merged element-wise, so
	// clear them before decoding and restore defaults if the file is silent.
	defaults := DefaultConfig()
	cfg.Columns = nil
	cfg.Display.TreeSymbols = nil
	cfg.Cgroup.Substitutions = nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the TOML syntax in "+source)
	}

	if len(cfg.Columns) == 0 {
		cfg.Columns = defaults.Columns
	}
	if len(cfg.Display.TreeSymbols) == 0 {
		cfg.Display.TreeSymbols = defaults.Display.TreeSymbols
	}
	if !v.IsSet("cgroup.substitutions") {
		cfg.Cgroup.Substitutions = defaults.Cgroup.Substitutions
	}
	for i := range cfg.Columns {
		if cfg.Columns[i].Align == "" {
			cfg.Columns[i].Align = AlignLeft
		}
	}

	return cfg, nil
}
