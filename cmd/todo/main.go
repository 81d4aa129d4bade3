package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abatilo/todo/internal/clock"
	"github.com/abatilo/todo/internal/config"
	"github.com/abatilo/todo/internal/logging"
	"github.com/abatilo/todo/internal/output"
	"github.com/abatilo/todo/internal/storage"
)

// cli holds the flag values and resolved collaborators for one invocation.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	clock  clock.Clock

	jsonOutput bool
	configPath string
	dataDir    string
	list       string
	backend    string
	format     string
	logLevel   string

	cfg       *config.Config
	formatter output.Formatter
	logger    *log.Logger
}

func newCLI(in io.Reader, out, errOut io.Writer, clk clock.Clock) *cli {
	return &cli{in: in, out: out, errOut: errOut, clock: clk}
}

func main() {
	c := newCLI(os.Stdin, os.Stdout, os.Stderr, clock.Real{})
	if err := c.execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree and prints any error through the active formatter.
func (c *cli) execute(args []string) error {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	err := root.Execute()
	if err != nil {
		f := c.formatter
		if f == nil {
			f = output.NewHumanFormatter()
		}
		c.print(f.FormatError(err))
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "A small local task list",
		Long:          "todo - create, edit, complete, filter and search tasks stored on this machine.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.jsonOutput {
				c.formatter = output.NewJSONFormatter()
			} else {
				c.formatter = output.NewHumanFormatter()
			}
			return c.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&c.jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&c.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/todo/config.toml or ~/.todo/config.toml)")
	flags.StringVar(&c.dataDir, "dir", "", "Data directory (default ~/.todo)")
	flags.StringVar(&c.list, "list", "", "Name of the task list (default \"tasks\")")
	flags.StringVar(&c.backend, "backend", "", "Storage backend (file, sqlite)")
	flags.StringVar(&c.format, "format", "", "Storage format for the file backend (json, yaml)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		c.addCmd(),
		c.editCmd(),
		c.toggleCmd(),
		c.rmCmd(),
		c.showCmd(),
		c.listCmd(),
		c.statsCmd(),
		c.viewCmd(),
		c.configCmd(),
	)

	return rootCmd
}

// loadConfig resolves config file and environment, then applies explicitly set flags.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.DataDir = c.dataDir
	}
	if flags.Changed("list") {
		cfg.List = c.list
	}
	if flags.Changed("backend") {
		cfg.Backend = c.backend
	}
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err = cfg.Finalize(); err != nil {
		return err
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	logger, err := logging.New(c.errOut, opts)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

// openStore opens the configured slot and loads the collection.
func (c *cli) openStore(ctx context.Context) (*storage.Store, error) {
	codec, err := storage.CodecFor(c.cfg.Format)
	if err != nil {
		return nil, err
	}

	var slot storage.Slot
	switch c.cfg.Backend {
	case config.BackendSQLite:
		slot, err = storage.OpenSQLiteSlot(ctx, filepath.Join(c.cfg.DataDir, storage.DatabaseFile), c.cfg.List)
		if err != nil {
			return nil, err
		}
	default:
		slot = storage.NewFileSlot(c.cfg.DataDir, c.cfg.List, codec.Ext())
	}

	store := storage.NewStore(slot, codec, c.clock, c.logger)
	if err = store.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// sessionList is the list name as used for the view session file.
func (c *cli) sessionList() string {
	return storage.SanitizeName(c.cfg.List)
}

func (c *cli) print(s string) {
	io.WriteString(c.out, s) //nolint:errcheck // stdout write errors are unrecoverable
}
