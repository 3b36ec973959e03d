package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
	"github.com/fivetwenty-io/screendoor/pkg/sdclient"
)

// Viper keys shared by the root command and subcommands.
const (
	KeyAPIKey     = "api_key"
	KeyHost       = "host"
	KeyAPIVersion = "api_version"
	KeyOutput     = "output"
	KeyQuery      = "query"
	KeyTimeout    = "timeout"
)

// clientFactory builds the API client used by every command. Tests replace it.
var clientFactory = CreateClient

// CreateClient builds a client from the resolved flags, environment and
// config file.
func CreateClient() (screendoor.Client, error) {
	apiKey := strings.TrimSpace(viper.GetString(KeyAPIKey))
	if apiKey == "" {
		return nil, constants.ErrNoAPIKeyConfigured
	}

	log := Logger()

	config := &screendoor.Config{
		APIKey:      apiKey,
		Host:        viper.GetString(KeyHost),
		Version:     viper.GetString(KeyAPIVersion),
		HTTPTimeout: viper.GetDuration(KeyTimeout),
		Logger:      &zerologAdapter{logger: log},
		Debug:       log.GetLevel() <= zerolog.DebugLevel,
	}

	client, err := sdclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// ValidateOutputFormat checks the --output value.
func ValidateOutputFormat(format string) error {
	switch format {
	case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, format)
	}
}

// writeOutput renders value in the selected output format. A --query jq
// expression is applied to the JSON form of value first; its results are
// printed as JSON unless YAML was requested.
func writeOutput(w io.Writer, value interface{}, renderTable func(*tablewriter.Table)) error {
	format := viper.GetString(KeyOutput)

	if expression := viper.GetString(KeyQuery); expression != "" {
		results, err := runQuery(value, expression)
		if err != nil {
			return err
		}

		if format == constants.FormatYAML {
			return writeYAML(w, results)
		}

		for _, result := range results {
			err = writeJSON(w, result)
			if err != nil {
				return err
			}
		}

		return nil
	}

	switch format {
	case constants.FormatJSON:
		return writeJSON(w, value)
	case constants.FormatYAML:
		return writeYAML(w, value)
	default:
		table := tablewriter.NewWriter(w)
		renderTable(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

func writeJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, value interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(toPlain(value))
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// toPlain round-trips value through JSON so raw answers and field options are
// rendered as data rather than byte slices.
func toPlain(value interface{}) interface{} {
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}

	var plain interface{}

	err = json.Unmarshal(data, &plain)
	if err != nil {
		return value
	}

	return plain
}

// runQuery evaluates a jq expression against the JSON form of value.
func runQuery(value interface{}, expression string) ([]interface{}, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	results := make([]interface{}, 0)
	iter := code.Run(toPlain(value))

	for {
		result, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := result.(error); isErr {
			return nil, fmt.Errorf("jq evaluation failed: %w", err)
		}

		results = append(results, result)
	}

	return results, nil
}

// rawString renders a raw JSON answer for a table cell.
func rawString(raw json.RawMessage) string {
	var text string

	err := json.Unmarshal(raw, &text)
	if err == nil {
		return text
	}

	return string(raw)
}

func optionalInt(value *int64) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%d", *value)
}
