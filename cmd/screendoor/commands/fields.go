package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// NewFieldsCommand creates the fields command group.
func NewFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field", "response-fields"},
		Short:   "Inspect form fields",
		Long:    "List the response fields of a project's form",
	}

	cmd.AddCommand(newFieldsListCommand())

	return cmd
}

func newFieldsListCommand() *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List form fields",
		Long:  "List the response fields of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory()
			if err != nil {
				return err
			}

			var fields []screendoor.ResponseField

			if allPages {
				fields, err = client.ResponseFields().ListAll(cmd.Context(), args[0], nil)
			} else {
				var list *screendoor.ListResponse[screendoor.ResponseField]

				list, err = client.ResponseFields().List(cmd.Context(), args[0], nil)
				if list != nil {
					fields = list.Resources
				}
			}

			if err != nil {
				return fmt.Errorf("failed to list fields: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), fields, func(table *tablewriter.Table) {
				table.Header("ID", "Label", "Type", "Required", "Admin Only")

				for _, field := range fields {
					_ = table.Append(
						strconv.FormatInt(field.ID, 10),
						field.Label,
						field.FieldType,
						strconv.FormatBool(field.Required),
						strconv.FormatBool(field.AdminOnly),
					)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}
