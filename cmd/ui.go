package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/keyring"
	"folio/internal/snapshot"
	"folio/internal/tui"
)

// defaultRefreshInterval between automatic quote re-resolutions in the TUI.
const defaultRefreshInterval = 5 * time.Minute

func init() {
	var (
		tabFlag   string
		hideFlag  []string
		noRefresh bool
	)

	uiCmd := &cobra.Command{
		Use:   "ui FILE",
		Short: "Interactive terminal UI",
		Long: `Launch the interactive terminal UI over a position file.

Tabs:
  Overview     Total portfolio value and asset allocation
  Balances     Per-position balances, with in-place amount editing
  Performance  Change versus the stored baseline

Keyboard shortcuts:
  1-3, tab  Switch tabs
  ↑/↓       Navigate positions
  enter     Edit the selected amount (Balances)
  r         Refresh quotes
  q         Quit (saves pending edits)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			cfg, err := config.Load(config.ConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			uiCfg, err := tui.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load UI config: %w", err)
			}

			// Flags override the persisted UI preferences.
			if tabFlag == "" {
				tabFlag = uiCfg.DefaultTab
			}
			tab, err := tui.ParseTab(tabFlag)
			if err != nil {
				return err
			}
			hidden := hideFlag
			if len(hidden) == 0 {
				hidden = uiCfg.Hidden
			}
			if err := validateComponents(hidden); err != nil {
				return err
			}

			store, err := loadStore(path)
			if err != nil {
				return err
			}

			resolver := newResolver(cfg, keyring.NewEnvStore(keyring.NewSystemStore()), cmd.ErrOrStderr())

			history := snapshot.NewHistory(config.SnapshotsPath())
			baseline, err := loadBaseline(cfg, history)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: snapshot history unreadable: %v\n", err)
			}

			refresh := defaultRefreshInterval
			if noRefresh {
				refresh = 0
			}

			opts := tui.Options{
				InitialTab:      tab,
				Hidden:          hidden,
				RefreshInterval: refresh,
				Baseline:        baseline,
				WriteBack: func(data []byte) error {
					return os.WriteFile(path, data, 0600)
				},
				RecordTotal: func(total decimal.Decimal) error {
					return history.Record(time.Now(), total)
				},
			}

			p := tea.NewProgram(tui.New(store, resolver, opts), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			// A failed flush is a warning, not a crash: the edit survived
			// in memory for the whole session, only the write was lost.
			if m, ok := final.(tui.Model); ok {
				if exitErr := m.ExitError(); exitErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", exitErr)
				}
			}
			return nil
		},
	}

	uiCmd.Flags().StringVar(&tabFlag, "tab", "", "Starting tab (overview, balances, performance)")
	uiCmd.Flags().StringSliceVar(&hideFlag, "hide", nil, "Component tags to hide (header, footer, total, allocation, warnings, help)")
	uiCmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "Disable periodic quote refresh")
	uiCmd.SilenceUsage = true
	rootCmd.AddCommand(uiCmd)
}

// validateComponents rejects unknown --hide tags up front.
func validateComponents(tags []string) error {
	known := make(map[string]bool, len(tui.KnownComponents))
	for _, c := range tui.KnownComponents {
		known[c] = true
	}
	for _, tag := range tags {
		if !known[tag] {
			return fmt.Errorf("unknown component %q (known: %v)", tag, tui.KnownComponents)
		}
	}
	return nil
}
