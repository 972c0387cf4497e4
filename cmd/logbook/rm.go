package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"logbook/internal/engine"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <attachment-prefix>",
	Short: "Remove an attachment",
	Long: `Remove an attachment from its entry. With --disk the file is deleted too,
unless another attachment still uses it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, _ := cmd.Flags().GetBool("disk")
		force, _ := cmd.Flags().GetBool("force")

		m, catalog, err := openManager()
		if err != nil {
			return err
		}
		att, err := findAttachment(m, args[0])
		if err != nil {
			return err
		}

		if disk && !att.IsURL() && !m.CanDeleteFromDisk(att.ID()) {
			fmt.Println(Warning(fmt.Sprintf("%s is shared with another attachment and will stay on disk", att.Path())))
		}
		if !force && !confirm(fmt.Sprintf("Delete attachment %q (%s)?", att.Name(), shortID(att))) {
			fmt.Println("Cancelled.")
			return nil
		}

		warn := m.Delete(cmd.Context(), engine.DeleteAttachmentRequest{AttachmentID: att.ID(), FromDisk: disk})
		if warn != nil && !engine.IsWarning(warn) {
			return warn
		}
		if err := saveManager(m, catalog); err != nil {
			return err
		}
		if warn != nil {
			fmt.Println(Warning(warn.Error()))
		}

		fmt.Println(Success(fmt.Sprintf("Deleted attachment %s", shortID(att))))
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	rmCmd.Flags().Bool("disk", false, "also delete the file from disk")
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
