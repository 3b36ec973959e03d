package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/screendoor/internal/constants"
)

// NewRootCommand creates the screendoor command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	var cleanup func() error

	cmd := &cobra.Command{
		Use:   "screendoor",
		Short: "Screendoor API CLI",
		Long: `A command-line interface for the Screendoor survey API.

List projects and form fields, read, create and update responses, and upload
files. The API key is read from --api-key, SCREENDOOR_API_KEY or the config
file written by 'screendoor config set-key'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := initConfig(viper.GetString("config"), managesConfigFile(cmd))
			if err != nil {
				return err
			}

			err = ValidateOutputFormat(viper.GetString(KeyOutput))
			if err != nil {
				return err
			}

			cleanup, err = SetupLogger(LogConfig{
				Level:  viper.GetString("log.level"),
				Format: viper.GetString("log.format"),
				File:   viper.GetString("log.file"),
				Color:  !viper.GetBool("no_color") && term.IsTerminal(int(os.Stderr.Fd())),
			})

			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cleanup == nil {
				return nil
			}

			return cleanup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.screendoor/config.yml)")
	flags.String("api-key", "", "Screendoor API key")
	flags.String("host", "", "API base URL (default "+constants.DefaultHost+")")
	flags.String("api-version", "", "API version sent as the v parameter (default "+constants.DefaultAPIVersion+")")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "HTTP request timeout")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.StringP("query", "q", "", "jq expression applied to the JSON output")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", constants.LogFormatConsole, "log format (console, json)")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")
	flags.Bool("no-color", false, "disable colored log output")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag(KeyAPIKey, flags.Lookup("api-key"))
	_ = viper.BindPFlag(KeyHost, flags.Lookup("host"))
	_ = viper.BindPFlag(KeyAPIVersion, flags.Lookup("api-version"))
	_ = viper.BindPFlag(KeyTimeout, flags.Lookup("timeout"))
	_ = viper.BindPFlag(KeyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(KeyQuery, flags.Lookup("query"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("log.file", flags.Lookup("log-file"))
	_ = viper.BindPFlag("no_color", flags.Lookup("no-color"))

	cmd.AddCommand(NewVersionCommand(version, commit, date))
	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewProjectsCommand())
	cmd.AddCommand(NewFieldsCommand())
	cmd.AddCommand(NewResponsesCommand())
	cmd.AddCommand(NewFilesCommand())

	return cmd
}

// initConfig wires the config file and SCREENDOOR_* environment variables
// into viper. A missing default config file is not an error; a file named with
// --config must exist unless allowMissing is set.
func initConfig(cfgFile string, allowMissing bool) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(constants.ConfigFileName, filepath.Ext(constants.ConfigFileName)))
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		if cfgFile == "" || allowMissing {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w: %s", constants.ErrConfigFileNotFound, cfgFile)
	}

	return fmt.Errorf("failed to read config file: %w", err)
}

// managesConfigFile reports whether cmd belongs to the config command group,
// whose subcommands create the file they are pointed at.
func managesConfigFile(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if current.Name() == configCommandName {
			return true
		}
	}

	return false
}
