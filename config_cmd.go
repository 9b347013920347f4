package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# wrap Braille at width (0 disables wrapping)
width: 0
# reduce Markdown to plain text before encoding
markdown: false
# apply NFC normalization before encoding
nfc: false
# print encoding statistics to stderr
stats: false
# documents encoded in parallel when given a directory (0 uses every CPU)
jobs: 0
# include hidden and ignored files in directories
all: false
# show results in the TUI pager
tui: false
# mouse support (TUI-mode only)
mouse: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the brl config file",
	Long:    paragraph(fmt.Sprintf("\n%s the brl config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("brl config\nbrl config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("brl", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		if err := validateConfigFile(configFile); err != nil {
			return err
		}
		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

// fileConfig lists the keys a config file may set.
type fileConfig struct {
	Width    uint `yaml:"width"`
	Markdown bool `yaml:"markdown"`
	NFC      bool `yaml:"nfc"`
	Stats    bool `yaml:"stats"`
	Jobs     int  `yaml:"jobs"`
	All      bool `yaml:"all"`
	TUI      bool `yaml:"tui"`
	Mouse    bool `yaml:"mouse"`
}

// validateConfigFile reports unknown keys and mistyped values, which viper
// would otherwise ignore.
func validateConfigFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("unable to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg fileConfig
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config file %s: %w", name, err)
	}
	if cfg.Jobs < 0 {
		return fmt.Errorf("invalid config file %s: jobs must not be negative", name)
	}
	return nil
}
