package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "proj"},
		Short:   "Manage projects",
		Long:    "List and inspect the projects of a Screendoor site",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsGetCommand())

	return cmd
}

// ProjectsListOptions holds the options for listing projects.
type ProjectsListOptions struct {
	AllPages bool
	Page     int
	PerPage  int
}

func newProjectsListCommand() *cobra.Command {
	var opts ProjectsListOptions

	cmd := &cobra.Command{
		Use:   "list SITE_ID",
		Short: "List projects",
		Long:  "List the projects of a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory()
			if err != nil {
				return err
			}

			params := screendoor.NewQueryParams().WithPage(opts.Page).WithPerPage(opts.PerPage)

			var projects []screendoor.Project

			if opts.AllPages {
				projects, err = client.Projects().ListAll(cmd.Context(), args[0], params)
			} else {
				var list *screendoor.ListResponse[screendoor.Project]

				list, err = client.Projects().List(cmd.Context(), args[0], params)
				if list != nil {
					projects = list.Resources
				}
			}

			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), projects, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Status", "Created", "Updated")

				for _, project := range projects {
					_ = table.Append(strconv.FormatInt(project.ID, 10), project.Name, project.Status, project.CreatedAt, project.UpdatedAt)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&opts.AllPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", 0, "results per page")

	return cmd
}

func newProjectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SITE_ID PROJECT_ID",
		Short: "Get project details",
		Long:  "Display detailed information about a specific project",
		Args:  cobra.ExactArgs(2), //nolint:mnd // site and project
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory()
			if err != nil {
				return err
			}

			project, err := client.Projects().Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get project '%s': %w", args[1], err)
			}

			return writeOutput(cmd.OutOrStdout(), project, func(table *tablewriter.Table) {
				table.Header("Property", "Value")

				_ = table.Append("ID", strconv.FormatInt(project.ID, 10))
				_ = table.Append("Name", project.Name)
				_ = table.Append("Status", project.Status)
				_ = table.Append("Created", project.CreatedAt)
				_ = table.Append("Updated", project.UpdatedAt)
			})
		},
	}
}
