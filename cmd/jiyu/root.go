package main

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Aj4x/jiyu/internal/action"
	"github.com/Aj4x/jiyu/internal/config"
	"github.com/Aj4x/jiyu/internal/elevate"
	"github.com/Aj4x/jiyu/internal/logger"
	"github.com/Aj4x/jiyu/internal/msgbus"
	"github.com/Aj4x/jiyu/internal/process"
	"github.com/Aj4x/jiyu/internal/ui"
)

// errActionFailed makes "run" exit with status 1 after a failed action.
var errActionFailed = errors.New("action failed")

func versionString() string {
	if version != "dev" {
		return fmt.Sprintf("%s (commit: %s)", version, commit)
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return version
}

// app holds flag values and the factories for the OS-facing components.
type app struct {
	cfgFile  string
	logFile  string
	logLevel string

	newTerminator func(log *slog.Logger) action.Terminator
	newElevator   func(shell string, log *slog.Logger) action.Elevator
	runProgram    func(m tea.Model) error
}

func newApp() *app {
	return &app{
		newTerminator: func(log *slog.Logger) action.Terminator {
			return process.NewSystemTerminator(log)
		},
		newElevator: func(shell string, log *slog.Logger) action.Elevator {
			return elevate.NewSystemRunner(shell, log)
		},
		runProgram: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

func (a *app) rootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "jiyu",
		Short:        "Release the restrictions of the Jiyu classroom client",
		Long:         `A terminal utility that closes the classroom client, stops its network filter driver and closes its network helper.`,
		Version:      version,
		SilenceUsage: true,
		RunE:         a.runUI,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./jiyu.yaml, then the user config directory)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "",
		"write logs to this file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn or error")

	root.AddCommand(a.listCmd(), a.runCmd())
	return root
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("#", "ID", "KIND", "TARGET", "LABEL")
			for i, act := range cfg.Actions {
				t.Row(fmt.Sprint(i+1), act.ID, string(act.Kind), act.Target, act.Label)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <action-id>",
		Short: "Run one action without the UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			act, ok := cfg.Find(args[0])
			if !ok {
				return fmt.Errorf("unknown action %q", args[0])
			}

			log, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer func() { _ = closeLog() }()

			exec := action.NewExecutor(a.newTerminator(log), a.newElevator(cfg.Shell, log), nil, log)
			fmt.Fprintln(cmd.ErrOrStderr(), act.Pending)
			ok, err = exec.Run(cmd.Context(), act)
			if err != nil {
				return fmt.Errorf("running %s: %w", act.ID, err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), act.Failure)
				return fmt.Errorf("%s: %w", act.ID, errActionFailed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), act.Success)
			return nil
		},
	}
}

func (a *app) runUI(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = closeLog() }()
	log.Info("starting", "version", cmd.Root().Version, "actions", len(cfg.Actions))

	bus := msgbus.NewMessageBus[action.Message](msgbus.WithLogger(log))
	exec := action.NewExecutor(a.newTerminator(log), a.newElevator(cfg.Shell, log), bus, log)

	if err := a.runProgram(ui.NewModel(*cfg, exec, bus, log)); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// loadConfig reads the configuration and applies flag overrides.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	return cfg, nil
}
