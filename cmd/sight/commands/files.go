package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewFilesCommand creates the files command group.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file"},
		Short:   "Manage file uploads",
		Long:    "Create file upload sessions for attaching files to Sight resources",
	}

	cmd.AddCommand(newFilesCreateUploadSessionCommand())

	return cmd
}

func newFilesCreateUploadSessionCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create-upload-session",
		Short: "Create a file upload session",
		Long:  "Create a file upload session from a JSON or YAML payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilesCreateUploadSessionCommand(cmd, data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "upload session payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runFilesCreateUploadSessionCommand(cmd *cobra.Command, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	session, err := client.Files().CreateUploadSession(context.Background(), payload)
	if err != nil {
		return fmt.Errorf("failed to create upload session: %w", err)
	}

	return outputRecord(session)
}
