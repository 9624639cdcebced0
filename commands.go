package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/editor"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/markdown"
	"github.com/gabrielfornes/scribble/internal/richtext"
	"github.com/gabrielfornes/scribble/internal/storage"
	"github.com/gabrielfornes/scribble/internal/tui"
)

// app carries what the persistent flags set up for every command.
type app struct {
	configPath string
	debug      bool
	logFile    string
	editorKind string

	cfg    *config.Config
	closer io.Closer
}

func rootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scribble [directory]",
		Short: "Edit markdown and rich text files in the terminal",
		Long: `Scribble lists the files of a directory with a rendered preview and
opens each one in a markdown editor with live preview or a rich text editor
with a style toolbar.`,
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				var err error
				if dir, err = storage.DefaultRoot(); err != nil {
					return err
				}
			}
			store, err := storage.New(dir)
			if err != nil {
				return err
			}
			return a.run(store)
		}),
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/scribble/config.yaml)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "log file (default "+log.DefaultFile()+")")
	cmd.PersistentFlags().StringVar(&a.editorKind, "editor", "", "force the editor for every file: markdown or plaintext")

	cmd.AddCommand(editCmd(a))
	cmd.AddCommand(renderCmd(a))
	cmd.AddCommand(configCmd(a))
	return cmd
}

func editCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Open a single file in its editor",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("could not resolve %s: %w", args[0], err)
			}
			store, err := storage.New(filepath.Dir(path))
			if err != nil {
				return err
			}

			name := filepath.Base(path)
			if !store.Exists(name) {
				if err := store.Write(cmd.Context(), file.New(name, file.TypeForName(name), nil)); err != nil {
					return err
				}
			}
			h, err := store.Open(name)
			if err != nil {
				return err
			}
			return a.run(store, tui.WithOpenFile(h))
		}),
	}
}

func configCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the effective configuration to the config file",
		Long: `Writes the configuration scribble would run with, including --editor,
to --config or the default config path. An existing file is kept unless
--force is given.`,
		Args: cobra.NoArgs,
		RunE: a.closing(func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			log.LogWithFields(log.F("path", path)).Info("config written")
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func renderCmd(a *app) *cobra.Command {
	var terminal bool

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print a file as HTML (markdown) or as its rich text blocks",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not read %s: %w", args[0], err)
			}
			h := file.New(filepath.Base(args[0]), file.TypeForName(args[0]), data)
			out := cmd.OutOrStdout()

			if editor.KindFor(h, a.cfg) == config.EditorMarkdown {
				if terminal {
					fmt.Fprintln(out, markdown.RenderTerminal(string(data), a.cfg.Preview.Style, a.cfg.Preview.WordWrap))
					return nil
				}
				fmt.Fprint(out, markdown.RenderHTML(string(data)))
				return nil
			}

			opts := editor.OptionsFromConfig(a.cfg)
			state, loadedAs, err := richtext.Load(string(data), opts.LoadMode)
			if err != nil {
				return fmt.Errorf("could not load %s: %w", args[0], err)
			}
			if loadedAs == richtext.LoadPlain {
				fmt.Fprintln(out, state.PlainText())
				return nil
			}
			fmt.Fprint(out, describeBlocks(state))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&terminal, "terminal", "t", false, "render markdown for the terminal instead of HTML")
	return cmd
}

// describeBlocks prints one line per block: type, depth, styled runs, text.
func describeBlocks(s richtext.State) string {
	var b strings.Builder
	for _, blk := range s.Blocks() {
		fmt.Fprintf(&b, "%-20s depth=%d", blk.Type, blk.Depth)
		for _, r := range blk.Runs() {
			if r.Style == 0 {
				continue
			}
			var names []string
			for _, st := range r.Style.Styles() {
				names = append(names, string(st))
			}
			end := r.Start + len([]rune(r.Text))
			fmt.Fprintf(&b, " [%d,%d)%s", r.Start, end, strings.Join(names, "+"))
		}
		fmt.Fprintf(&b, "  %q\n", blk.Text())
	}
	return b.String()
}

// setup loads the configuration and points logging at a file, since the
// TUI owns the terminal.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadConfigFile(a.configPath)
		if err != nil {
			return err
		}
	} else if a.cfg, err = config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v. Using default settings.\n", err)
		a.cfg = config.New()
	}

	if a.editorKind != "" {
		a.cfg.Editors = append([]config.EditorRule{{Pattern: "*", Editor: a.editorKind}}, a.cfg.Editors...)
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	path := a.logFile
	if path == "" {
		path = a.cfg.Log.File
	}
	if path == "" {
		path = log.DefaultFile()
	}
	if a.closer, err = log.ToFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	log.SetDebug(a.debug || a.cfg.Log.Debug)
	log.LogWithFields(log.F("command", cmd.Name()), log.F("version", version)).Info("scribble starting")
	return nil
}

// closing wraps a command so the log file is closed however it returns.
func (a *app) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.teardown()
		return run(cmd, args)
	}
}

func (a *app) teardown() {
	if a.closer != nil {
		a.closer.Close()
		a.closer = nil
	}
}

// run starts the TUI over store, watching it for external changes.
func (a *app) run(store *storage.Store, opts ...tui.Option) error {
	watcher, err := store.Watch()
	if err != nil {
		log.LogWithFields(log.F("error", err)).Warn("external changes will not be picked up")
	} else {
		defer watcher.Close()
		opts = append(opts, tui.WithWatcher(watcher))
	}

	model := tui.NewModel(store, a.cfg, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running scribble: %w", err)
	}
	return nil
}
