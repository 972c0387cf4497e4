package main

import (
	"fmt"

	"logbook/internal/engine"
	"logbook/internal/model"

	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <entry-prefix> <file-or-url>",
	Short: "Attach a file or URL to an entry",
	Long: `Copy a file into the logbook's attachment directory, or link it there with
--link, and record it on the entry. URLs are recorded as they are.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeFlag, _ := cmd.Flags().GetString("type")
		linkFlag, _ := cmd.Flags().GetBool("link")
		copyFlag, _ := cmd.Flags().GetBool("copy")
		comment, _ := cmd.Flags().GetString("comment")
		target, _ := cmd.Flags().GetString("target")

		m, catalog, err := openManager()
		if err != nil {
			return err
		}
		e, err := findEntry(m, args[0])
		if err != nil {
			return err
		}

		registry := m.Registry()
		typ := registry.Detect(args[1])
		if typeFlag != "" {
			typ = registry.LookupName(typeFlag)
		}

		mode := engine.ModeCopy
		if (config.LinkByDefault && !copyFlag) || linkFlag {
			mode = engine.ModeLink
		}

		att, err := m.Create(cmd.Context(), engine.NewAttachmentRequest{
			EntryID:   e.ID,
			Source:    args[1],
			Type:      typ,
			TargetDir: target,
			Mode:      mode,
			Comments:  comment,
		})
		if err != nil {
			return err
		}
		if err := saveManager(m, catalog); err != nil {
			return err
		}

		fmt.Println(Success(fmt.Sprintf("Attached %s to entry %s as %s", att.Name(), e.ShortID(), shortID(att))))
		return nil
	},
}

func typeNames(r *model.Registry) []string {
	var names []string
	for _, t := range r.Types() {
		names = append(names, t.Name)
	}
	return names
}

func init() {
	attachCmd.Flags().StringP("type", "t", "", "attachment type (detected when empty)")
	attachCmd.Flags().Bool("link", false, "symlink the file instead of copying it")
	attachCmd.Flags().Bool("copy", false, "copy the file even when linking is the default")
	attachCmd.Flags().StringP("comment", "c", "", "comment stored with the attachment")
	attachCmd.Flags().String("target", "", "directory to place the file in (default: the logbook's)")
	attachCmd.MarkFlagsMutuallyExclusive("link", "copy")
	_ = attachCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return typeNames(model.NewRegistry(nil)), cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.AddCommand(attachCmd)
}
