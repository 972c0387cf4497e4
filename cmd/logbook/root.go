package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"logbook/internal/engine"
	"logbook/internal/logging"
	"logbook/internal/model"
	"logbook/internal/storage"
	"logbook/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	catalogFlag string
	dirFlag     string
	verboseFlag bool

	config  *model.Config
	log     logging.Logger
	closeFn func() error
)

var rootCmd = &cobra.Command{
	Use:           "logbook",
	Short:         "Keep files and links attached to logbook entries",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		storage.LoadEnv()

		var err error
		config, err = storage.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := slog.LevelInfo
		if verboseFlag {
			level = slog.LevelDebug
		}
		log, closeFn, err = openLog(level)
		if err != nil {
			// logging is best effort; the command still runs
			log = logging.Discard()
			closeFn = nil
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeFn != nil {
			return closeFn()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := resolveCatalog(false)
		if err != nil {
			return err
		}
		if catalog != "" && dirFlag != "" {
			ref := storage.FindLogbook(config, catalog)
			if ref == nil {
				storage.AddLogbook(config, "", catalog, dirFlag)
			} else {
				ref.AttachmentDir = dirFlag
			}
		}

		p := tea.NewProgram(ui.InitialModel(config, catalog, log), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogFlag, "logbook", "l", "", "catalog file of the logbook to use")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "attachment directory, overriding the catalog")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log debug messages")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func openLog(level slog.Level) (logging.Logger, func() error, error) {
	dir, err := storage.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	return logging.OpenFile(filepath.Join(dir, storage.DefaultLogFile), level)
}

// resolveCatalog picks the catalog named by --logbook, then the active
// logbook of the config. With fallback set the default catalog path is used
// when neither is known.
func resolveCatalog(fallback bool) (string, error) {
	if catalogFlag != "" {
		return storage.ExpandPath(catalogFlag)
	}
	if config.ActiveLogbook != "" {
		return config.ActiveLogbook, nil
	}
	if !fallback {
		return "", nil
	}
	return storage.GetDefaultCatalogPath()
}

// openManager loads the current logbook for a one-shot command
func openManager() (*engine.Manager, string, error) {
	catalog, err := resolveCatalog(true)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(catalog), 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create catalog directory: %w", err)
	}

	dir := dirFlag
	if ref := storage.FindLogbook(config, catalog); ref != nil && dir == "" {
		dir = ref.AttachmentDir
	}

	m, err := engine.OpenCatalog(catalog, dir, model.NewRegistry(config.Viewers),
		engine.WithLogger(log), engine.WithLauncher(engine.ExecLauncher{}))
	if err != nil {
		return nil, "", err
	}
	m.Subscribe(func(ev engine.Event) {
		log.Info(context.Background(), "attachment "+ev.Type.String(),
			"entry", ev.EntryID, "attachment", ev.Attachment.ID(), "name", ev.Attachment.Name())
	})
	return m, catalog, nil
}

// saveManager writes the catalog back when anything changed
func saveManager(m *engine.Manager, catalog string) error {
	if !m.Modified() {
		return nil
	}
	if err := m.Save(catalog); err != nil {
		return err
	}
	if storage.FindLogbook(config, catalog) == nil {
		storage.AddLogbook(config, m.Logbook().Name, catalog, m.Logbook().AttachmentDir)
	}
	return storage.SaveConfig(config)
}
