package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dimcalc/internal/config"
	"github.com/san-kum/dimcalc/internal/dimension"
	"github.com/san-kum/dimcalc/internal/journal"
	"github.com/san-kum/dimcalc/internal/tui"
	"github.com/san-kum/dimcalc/pkg/logger"
)

var (
	configFile string
	dataDir    string
	preset     string
	theme      string
	logLevel   string
	saveRun    bool

	cfg *config.Config
	log *logger.Logger
)

// main registers the dimcalc commands and runs the calculator UI when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:               "dimcalc",
		Short:             "linked length, width, height and volume calculator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Close()
			}
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "session data directory")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "starting preset")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "color theme")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive calculator",
		RunE:  runTUI,
	}

	applyCmd := &cobra.Command{
		Use:   "apply EVENT...",
		Short: "apply events such as set:length=20 or lock:volume and print each state",
		Args:  cobra.MinimumNArgs(1),
		RunE:  applyEvents,
	}
	applyCmd.Flags().BoolVar(&saveRun, "save", false, "store the session in the data directory")

	replayCmd := &cobra.Command{
		Use:   "replay [session_id]",
		Short: "replay a stored session and check it reproduces the stored result",
		Args:  cobra.ExactArgs(1),
		RunE:  replaySession,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored sessions",
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot the quantities of a stored session",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [session_id]",
		Short: "export a stored session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return journal.NewStore(cfg.DataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list starting presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLENGTH\tWIDTH\tHEIGHT\tVOLUME\tLOCKS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%v\n", name, p.Length, p.Width, p.Height, p.Volume, p.Locks)
			}
			return w.Flush()
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list color themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range tui.ThemeNames() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or write configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return printConfig(cfg)
			},
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the default configuration",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := "dimcalc.yaml"
				if len(args) > 0 {
					path = args[0]
				}
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists", path)
				}
				if err := config.Save(path, config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
				return nil
			},
		},
	)

	rootCmd.AddCommand(tuiCmd, applyCmd, replayCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, themesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and the logger shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if dataDir != "" {
		loaded.DataDir = dataDir
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if preset != "" {
		if err := loaded.ApplyPreset(preset); err != nil {
			return err
		}
	}
	if theme != "" {
		loaded.Theme = theme
	}
	cfg = loaded

	l, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	log = l.Named("dimcalc")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The alternate screen owns the terminal; stderr logging would tear it.
	if cfg.Log.File == "" || cfg.Log.File == "-" {
		log = logger.Nop()
	}
	return tui.Run(cfg, journal.NewStore(cfg.DataDir), log)
}

func applyEvents(cmd *cobra.Command, args []string) error {
	events := make([]dimension.Event, 0, len(args))
	for _, arg := range args {
		ev, err := dimension.ParseEvent(arg)
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	initial, err := cfg.InitialState()
	if err != nil {
		return err
	}

	j := journal.Replay(initial, events)
	j.Preset = cfg.Preset
	if err := printEntries(initial, j.Entries()); err != nil {
		return err
	}

	if !saveRun {
		return nil
	}
	st := journal.NewStore(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(j)
	if err != nil {
		return err
	}
	log.Info("session saved", "id", id, "entries", j.Len())
	fmt.Printf("\nsaved: %s\n", id)
	return nil
}

func replaySession(cmd *cobra.Command, args []string) error {
	st := journal.NewStore(cfg.DataDir)
	stored, err := st.LoadJournal(args[0])
	if err != nil {
		return err
	}

	replayed := journal.Replay(stored.Initial, stored.Events())
	if err := printEntries(stored.Initial, replayed.Entries()); err != nil {
		return err
	}

	if replayed.Final() != stored.Final() {
		log.Warn("replay diverged", "session", args[0], "stored", stored.Final().String(), "replayed", replayed.Final().String())
		return fmt.Errorf("replay diverged: stored %s, replayed %s", stored.Final(), replayed.Final())
	}
	fmt.Println("\nreplay matches stored session")
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	sessions, err := journal.NewStore(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPRESET\tEVENTS\tFINAL")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Preset,
			s.Entries,
			s.Final,
		)
	}
	return w.Flush()
}

func plotSession(cmd *cobra.Command, args []string) error {
	j, err := journal.NewStore(cfg.DataDir).LoadJournal(args[0])
	if err != nil {
		return err
	}
	if j.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("session: %s\n", args[0])
	fmt.Printf("events: %d\n\n", j.Len())

	for _, q := range dimension.Quantities {
		graph := asciigraph.Plot(j.Series(q),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(q.String()),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func printEntries(initial dimension.State, entries []journal.Entry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tEVENT\tLENGTH\tWIDTH\tHEIGHT\tVOLUME\tLOCKS\tOUTCOME")
	fmt.Fprintf(w, "0\t-\t%g\t%g\t%g\t%g\t%s\t-\n", initial.Length, initial.Width, initial.Height, initial.Volume, initial.Locks)
	for _, e := range entries {
		s := e.After
		fmt.Fprintf(w, "%d\t%s\t%g\t%g\t%g\t%g\t%s\t%s\n", e.Seq, e.Event, s.Length, s.Width, s.Height, s.Volume, s.Locks, e.Outcome)
	}
	return w.Flush()
}

func printConfig(c *config.Config) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	bank := c.Bank()
	for _, q := range dimension.Quantities {
		fmt.Fprintf(w, "%s\t%s\n", q, bank[q])
	}
	s, err := c.InitialState()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "start\t%s\n", s)
	fmt.Fprintf(w, "theme\t%s\n", c.Theme)
	fmt.Fprintf(w, "data\t%s\n", c.DataDir)
	fmt.Fprintf(w, "log\t%s/%s\n", c.Log.Level, c.Log.Format)
	return w.Flush()
}
