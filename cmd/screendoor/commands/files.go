package commands

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

const defaultContentType = "application/octet-stream"

// NewFilesCommand creates the files command group.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file"},
		Short:   "Upload files",
		Long:    "Upload files for file fields of a form",
	}

	cmd.AddCommand(newFilesUploadCommand())

	return cmd
}

func newFilesUploadCommand() *cobra.Command {
	var (
		contentType string
		filename    string
	)

	cmd := &cobra.Command{
		Use:   "upload FIELD_ID PATH",
		Short: "Upload a file",
		Long:  "Upload a file for a file field. The returned file ID can be used as the field's answer.",
		Args:  cobra.ExactArgs(2), //nolint:mnd // field and path
		RunE: func(cmd *cobra.Command, args []string) error {
			// path is supplied by the user on the command line
			// #nosec G304
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			opts := screendoor.FileOptions{
				Filename:    filename,
				ContentType: contentType,
			}

			if opts.Filename == "" {
				opts.Filename = filepath.Base(args[1])
			}

			if opts.ContentType == "" {
				opts.ContentType = detectContentType(opts.Filename)
			}

			client, err := clientFactory()
			if err != nil {
				return err
			}

			result, err := client.Files().Upload(cmd.Context(), args[0], base64.StdEncoding.EncodeToString(content), opts)
			if err != nil {
				return fmt.Errorf("failed to upload file: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), result, func(table *tablewriter.Table) {
				table.Header("Property", "Value")

				_ = table.Append("OK", fmt.Sprintf("%t", result.Succeeded()))
				_ = table.Append("File ID", rawString(result.FileID))
			})
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "content type (detected from the file name by default)")
	cmd.Flags().StringVar(&filename, "filename", "", "file name sent to the server (default: base name of PATH)")

	return cmd
}

func detectContentType(filename string) string {
	if detected := mime.TypeByExtension(filepath.Ext(filename)); detected != "" {
		return detected
	}

	return defaultContentType
}
