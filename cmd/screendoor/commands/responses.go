package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// NewResponsesCommand creates the responses command group.
func NewResponsesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "responses",
		Aliases: []string{"response", "resp"},
		Short:   "Manage responses",
		Long:    "List, read, create and update the responses of a project",
	}

	cmd.AddCommand(newResponsesListCommand())
	cmd.AddCommand(newResponsesGetCommand())
	cmd.AddCommand(newResponsesCreateCommand())
	cmd.AddCommand(newResponsesUpdateCommand())

	return cmd
}

// ResponsesListOptions holds the options for listing responses.
type ResponsesListOptions struct {
	AllPages  bool
	Sort      string
	Direction string
	Page      int
	PerPage   int
}

func newResponsesListCommand() *cobra.Command {
	var opts ResponsesListOptions

	cmd := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List responses",
		Long:  "List the responses of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory()
			if err != nil {
				return err
			}

			params := &screendoor.ListResponsesParams{
				Sort:      opts.Sort,
				Direction: opts.Direction,
				Page:      opts.Page,
				PerPage:   opts.PerPage,
			}

			var responses []screendoor.Response

			if opts.AllPages {
				responses, err = client.Responses().ListAll(cmd.Context(), args[0], params)
			} else {
				var list *screendoor.ListResponse[screendoor.Response]

				list, err = client.Responses().List(cmd.Context(), args[0], params)
				if list != nil {
					responses = list.Resources
				}
			}

			if err != nil {
				return fmt.Errorf("failed to list responses: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), responses, func(table *tablewriter.Table) {
				appendResponseRows(table, responses)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.AllPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort key")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "sort direction (asc, desc)")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newResponsesGetCommand() *cobra.Command {
	var (
		format      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "get PROJECT_ID RESPONSE_ID...",
		Short: "Get responses",
		Long:  "Display one or more responses. Several IDs are fetched concurrently.",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // project and at least one response
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory()
			if err != nil {
				return err
			}

			responses, err := screendoor.GetResponses(cmd.Context(), client.Responses(), args[0], args[1:], format, concurrency)
			if err != nil {
				return fmt.Errorf("failed to get responses: %w", err)
			}

			var value interface{} = responses
			if len(responses) == 1 {
				value = responses[0]
			}

			return writeOutput(cmd.OutOrStdout(), value, func(table *tablewriter.Table) {
				if len(responses) == 1 {
					appendResponseDetail(table, responses[0])

					return
				}

				plain := make([]screendoor.Response, 0, len(responses))
				for _, response := range responses {
					plain = append(plain, *response)
				}

				appendResponseRows(table, plain)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", constants.ResponseFormatRaw, "response format")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "maximum concurrent requests")

	return cmd
}

// ResponseWriteOptions holds the flags shared by create and update.
type ResponseWriteOptions struct {
	Fields     []string
	FieldsFile string
}

func (o ResponseWriteOptions) values(required bool) (screendoor.ResponseFieldValues, error) {
	values := screendoor.ResponseFieldValues{}

	if o.FieldsFile != "" {
		fromFile, err := loadFieldsFile(o.FieldsFile)
		if err != nil {
			return nil, err
		}

		for key, value := range fromFile {
			values[key] = value
		}
	}

	fromFlags, err := parseFieldFlags(o.Fields)
	if err != nil {
		return nil, err
	}

	for key, value := range fromFlags {
		values[key] = value
	}

	if required && len(values) == 0 {
		return nil, constants.ErrFieldsRequired
	}

	return values, nil
}

func newResponsesCreateCommand() *cobra.Command {
	var (
		write                 ResponseWriteOptions
		skipEmailConfirmation bool
		skipNotifications     bool
		skipValidation        bool
	)

	cmd := &cobra.Command{
		Use:   "create PROJECT_ID",
		Short: "Create a response",
		Long:  "Submit a new response to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := write.values(true)
			if err != nil {
				return err
			}

			opts := &screendoor.CreateResponseOptions{}
			if cmd.Flags().Changed("skip-email-confirmation") {
				opts.SkipEmailConfirmation = screendoor.Bool(skipEmailConfirmation)
			}

			if cmd.Flags().Changed("skip-notifications") {
				opts.SkipNotifications = screendoor.Bool(skipNotifications)
			}

			if cmd.Flags().Changed("skip-validation") {
				opts.SkipValidation = screendoor.Bool(skipValidation)
			}

			client, err := clientFactory()
			if err != nil {
				return err
			}

			response, err := client.Responses().Create(cmd.Context(), args[0], values, opts)
			if err != nil {
				return fmt.Errorf("failed to create response: %w", err)
			}

			log := Logger()
			log.Info().Int64("response_id", response.ID).Str("project_id", args[0]).Msg("Response created")

			return writeOutput(cmd.OutOrStdout(), response, func(table *tablewriter.Table) {
				appendResponseDetail(table, response)
			})
		},
	}

	addResponseWriteFlags(cmd, &write)
	cmd.Flags().BoolVar(&skipEmailConfirmation, "skip-email-confirmation", true, "do not email the respondent")
	cmd.Flags().BoolVar(&skipNotifications, "skip-notifications", true, "do not notify project members")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", true, "skip server side validation")

	return cmd
}

func newResponsesUpdateCommand() *cobra.Command {
	var (
		write           ResponseWriteOptions
		forceValidation bool
		labels          []string
		statuses        []string
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT_ID RESPONSE_ID",
		Short: "Update a response",
		Long:  "Update the answers, labels or status of an existing response",
		Args:  cobra.ExactArgs(2), //nolint:mnd // project and response
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := write.values(false)
			if err != nil {
				return err
			}

			opts := &screendoor.UpdateResponseOptions{}
			if cmd.Flags().Changed("force-validation") {
				opts.ForceValidation = screendoor.Bool(forceValidation)
			}

			if cmd.Flags().Changed("label") {
				opts.Labels = labels
			}

			if cmd.Flags().Changed("status") {
				opts.Status = statuses
			}

			client, err := clientFactory()
			if err != nil {
				return err
			}

			response, err := client.Responses().Update(cmd.Context(), args[0], args[1], values, opts)
			if err != nil {
				return fmt.Errorf("failed to update response '%s': %w", args[1], err)
			}

			return writeOutput(cmd.OutOrStdout(), response, func(table *tablewriter.Table) {
				appendResponseDetail(table, response)
			})
		},
	}

	addResponseWriteFlags(cmd, &write)
	cmd.Flags().BoolVar(&forceValidation, "force-validation", false, "validate the answers on the server")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "label to set (repeatable)")
	cmd.Flags().StringArrayVar(&statuses, "status", nil, "status to set (repeatable)")

	return cmd
}

func addResponseWriteFlags(cmd *cobra.Command, write *ResponseWriteOptions) {
	cmd.Flags().StringArrayVar(&write.Fields, "field", nil, "answer as FIELD_ID=VALUE (repeatable)")
	cmd.Flags().StringVar(&write.FieldsFile, "fields-file", "", "YAML or JSON file mapping field IDs to answers")
}

// parseFieldFlags turns FIELD_ID=VALUE pairs into answers. A field given more
// than once collects its values into a list.
func parseFieldFlags(pairs []string) (screendoor.ResponseFieldValues, error) {
	values := screendoor.ResponseFieldValues{}

	for _, pair := range pairs {
		id, value, found := strings.Cut(pair, "=")

		id = strings.TrimSpace(id)
		if !found || id == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldFlag, pair)
		}

		switch existing := values[id].(type) {
		case nil:
			values[id] = value
		case string:
			values[id] = []string{existing, value}
		case []string:
			values[id] = append(existing, value)
		}
	}

	return values, nil
}

// loadFieldsFile reads answers from a YAML document; JSON is accepted too.
func loadFieldsFile(path string) (screendoor.ResponseFieldValues, error) {
	// path is supplied by the user on the command line
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fields file: %w", err)
	}

	values := screendoor.ResponseFieldValues{}

	err = yaml.Unmarshal(data, &values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fields file: %w", err)
	}

	return values, nil
}

func appendResponseRows(table *tablewriter.Table, responses []screendoor.Response) {
	table.Header("ID", "Sequential ID", "Status", "Labels", "Submitted")

	for _, response := range responses {
		_ = table.Append(
			strconv.FormatInt(response.ID, 10),
			optionalInt(response.SequentialID),
			response.Status,
			strings.Join(response.Labels, ", "),
			response.SubmittedAt,
		)
	}
}

func appendResponseDetail(table *tablewriter.Table, response *screendoor.Response) {
	table.Header("Property", "Value")

	_ = table.Append("ID", strconv.FormatInt(response.ID, 10))
	_ = table.Append("Sequential ID", optionalInt(response.SequentialID))
	_ = table.Append("Project ID", optionalInt(response.ProjectID))
	_ = table.Append("Status", response.Status)
	_ = table.Append("Labels", strings.Join(response.Labels, ", "))
	_ = table.Append("Submitted", response.SubmittedAt)
	_ = table.Append("Updated", response.UpdatedAt)

	ids := make([]string, 0, len(response.Responses))
	for id := range response.Responses {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		_ = table.Append("Field "+id, rawString(response.Responses[id]))
	}
}
