package main

import (
	"fmt"

	"logbook/internal/engine"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <attachment-prefix>",
	Short: "Change the type or comment of an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, catalog, err := openManager()
		if err != nil {
			return err
		}
		att, err := findAttachment(m, args[0])
		if err != nil {
			return err
		}

		req := engine.EditAttachmentRequest{
			AttachmentID: att.ID(),
			Type:         att.Type(),
			Comments:     att.Comments(),
		}
		if cmd.Flags().Changed("type") {
			name, _ := cmd.Flags().GetString("type")
			req.Type = m.Registry().LookupName(name)
		}
		if cmd.Flags().Changed("comment") {
			req.Comments, _ = cmd.Flags().GetString("comment")
		}

		if err := m.Edit(req); err != nil {
			return err
		}
		if err := saveManager(m, catalog); err != nil {
			return err
		}

		fmt.Println(Success(fmt.Sprintf("Updated attachment %s", shortID(att))))
		return nil
	},
}

func init() {
	editCmd.Flags().StringP("type", "t", "", "new attachment type")
	editCmd.Flags().StringP("comment", "c", "", "new comment")
	rootCmd.AddCommand(editCmd)
}
