package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <attachment-prefix>",
	Short: "Open an attachment in its configured viewer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := openManager()
		if err != nil {
			return err
		}
		att, err := findAttachment(m, args[0])
		if err != nil {
			return err
		}
		if err := m.Open(cmd.Context(), att.ID()); err != nil {
			return err
		}
		fmt.Println(Success(fmt.Sprintf("Opened %s", att.Name())))
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read size and times of every attached file",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, catalog, err := openManager()
		if err != nil {
			return err
		}

		changed, err := m.RefreshAll()
		if saveErr := saveManager(m, catalog); saveErr != nil {
			return saveErr
		}
		if err != nil {
			fmt.Println(Warning(err.Error()))
		}
		fmt.Println(Success(fmt.Sprintf("%d attachment(s) changed on disk", changed)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd, refreshCmd)
}
