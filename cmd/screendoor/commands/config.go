package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/screendoor/internal/constants"
)

// Config represents the CLI configuration file.
type Config struct {
	APIKey     string    `json:"api_key,omitempty"     yaml:"api_key,omitempty"`
	Host       string    `json:"host,omitempty"        yaml:"host,omitempty"`
	APIVersion string    `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Output     string    `json:"output,omitempty"      yaml:"output,omitempty"`
	Timeout    string    `json:"timeout,omitempty"     yaml:"timeout,omitempty"`
	Log        LogConfig `json:"log,omitempty"         yaml:"log,omitempty"`
}

// settableKeys maps `config set` keys to their setter.
var settableKeys = map[string]func(*Config, string){
	KeyHost:       func(c *Config, v string) { c.Host = v },
	KeyAPIVersion: func(c *Config, v string) { c.APIVersion = v },
	KeyOutput:     func(c *Config, v string) { c.Output = v },
	KeyTimeout:    func(c *Config, v string) { c.Timeout = v },
	"log.level":   func(c *Config, v string) { c.Log.Level = v },
	"log.format":  func(c *Config, v string) { c.Log.Format = v },
	"log.file":    func(c *Config, v string) { c.Log.File = v },
}

const configCommandName = "config"

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   configCommandName,
		Short: "Manage CLI configuration",
		Long:  "Manage the Screendoor CLI configuration file and API key",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigSetKeyCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the configuration file contents with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(configFilePath())
			if err != nil {
				return err
			}

			if config.APIKey != "" {
				config.APIKey = constants.MaskedValue
			}

			return writeOutput(cmd.OutOrStdout(), config, func(table *tablewriter.Table) {
				table.Header("Property", "Value")

				_ = table.Append("Config File", configFilePath())
				_ = table.Append("API Key", config.APIKey)
				_ = table.Append("Host", config.Host)
				_ = table.Append("API Version", config.APIVersion)
				_ = table.Append("Output", config.Output)
				_ = table.Append("Timeout", config.Timeout)
				_ = table.Append("Log Level", config.Log.Level)
				_ = table.Append("Log Format", config.Log.Format)
				_ = table.Append("Log File", config.Log.File)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(settableKeyNames(), ", "),
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFilePath()

			config, err := loadConfig(path)
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value, including api_key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFilePath()

			config, err := loadConfig(path)
			if err != nil {
				return err
			}

			if args[0] == KeyAPIKey {
				config.APIKey = ""
			} else {
				err = setConfigValue(config, args[0], "")
				if err != nil {
					return err
				}
			}

			err = saveConfig(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := os.Remove(configFilePath())
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared configuration")

			return nil
		},
	}
}

func newConfigSetKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the API key",
		Long:  "Prompt for the Screendoor API key and store it in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			path := configFilePath()

			config, err := loadConfig(path)
			if err != nil {
				return err
			}

			config.APIKey = apiKey

			err = saveConfig(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", path)

			return nil
		},
	}
}

// readAPIKey prompts without echo on a terminal and reads one line otherwise.
func readAPIKey(in io.Reader, prompt io.Writer) (string, error) {
	var raw string

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(prompt, "API key: ")

		bytes, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		raw = string(bytes)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		raw = line
	}

	apiKey := strings.TrimSpace(raw)
	if apiKey == "" {
		return "", constants.ErrEmptyAPIKey
	}

	return apiKey, nil
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	if key == KeyOutput && value != "" {
		err := ValidateOutputFormat(value)
		if err != nil {
			return err
		}
	}

	setter(config, value)

	return nil
}

func settableKeyNames() []string {
	names := make([]string, 0, len(settableKeys))
	for name := range settableKeys {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// configFilePath returns the file named by --config, or the default location.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(constants.ConfigDirName, constants.ConfigFileName)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName)
}

// loadConfig reads the configuration file. A missing file yields an empty config.
func loadConfig(path string) (*Config, error) {
	config := &Config{}

	// path comes from --config or the user's home directory
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// saveConfig writes the configuration file with owner-only permissions.
func saveConfig(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
