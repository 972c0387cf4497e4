package main

import (
	"fmt"
	"strings"

	"logbook/internal/model"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [entry-prefix]",
	Short: "List attachments",
	Long:  `List the attachments of one entry, or of the whole logbook when no entry is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sortFlag, _ := cmd.Flags().GetString("sort")
		reverse, _ := cmd.Flags().GetBool("reverse")

		column, ok := model.ParseColumn(sortFlag)
		if !ok {
			return fmt.Errorf("unknown sort column %q", sortFlag)
		}

		m, _, err := openManager()
		if err != nil {
			return err
		}

		var list []*model.Attachment
		if len(args) == 1 {
			e, err := findEntry(m, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", bold(e.Title), faint(e.ShortID()))
			list = m.Attachments(e.ID)
		} else {
			list = m.All()
		}

		if len(list) == 0 {
			fmt.Println("No attachments found.")
			return nil
		}

		model.SortAttachments(list, column, reverse)
		for _, a := range list {
			fmt.Print(formatAttachment(a))
		}
		return nil
	},
}

func columnNames() []string {
	var names []string
	for _, c := range model.Columns() {
		names = append(names, strings.ToLower(c.String()))
	}
	return names
}

func init() {
	lsCmd.Flags().StringP("sort", "s", "name", "sort column: "+strings.Join(columnNames(), ", "))
	lsCmd.Flags().BoolP("reverse", "r", false, "sort descending")
	rootCmd.AddCommand(lsCmd)
}
