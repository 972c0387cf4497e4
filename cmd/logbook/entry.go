package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage logbook entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an entry",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, catalog, err := openManager()
		if err != nil {
			return err
		}

		e := m.AddEntry(strings.Join(args, " "))
		if err := saveManager(m, catalog); err != nil {
			return err
		}

		fmt.Println(Success(fmt.Sprintf("Added entry %s", e.ShortID())))
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := openManager()
		if err != nil {
			return err
		}

		entries := m.Entries()
		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}
		for _, e := range entries {
			fmt.Print(formatEntry(e, len(m.Attachments(e.ID))))
		}
		return nil
	},
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <entry-prefix>",
	Short: "Remove an entry and its attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, _ := cmd.Flags().GetBool("disk")
		force, _ := cmd.Flags().GetBool("force")

		m, catalog, err := openManager()
		if err != nil {
			return err
		}
		e, err := findEntry(m, args[0])
		if err != nil {
			return err
		}

		if !force && !confirm(fmt.Sprintf("Delete entry %q (%s)?", e.Title, e.ShortID())) {
			fmt.Println("Cancelled.")
			return nil
		}

		warn := m.RemoveEntry(cmd.Context(), e.ID, disk)
		if err := saveManager(m, catalog); err != nil {
			return err
		}
		if warn != nil {
			fmt.Println(Warning(warn.Error()))
		}
		fmt.Println(Success(fmt.Sprintf("Deleted entry %s", e.ShortID())))
		return nil
	},
}

func init() {
	entryRmCmd.Flags().Bool("disk", false, "also delete attachment files that no other attachment uses")
	entryRmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryRmCmd)
	rootCmd.AddCommand(entryCmd)
}
