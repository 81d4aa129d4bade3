package main

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/abatilo/todo/internal/config"
	"github.com/abatilo/todo/internal/session"
	"github.com/abatilo/todo/internal/view"
)

// loadSession returns the remembered view, discarding a status it no longer understands.
func (c *cli) loadSession() *session.Session {
	sess := session.LoadOrDefault(c.cfg.DataDir, c.sessionList())
	st, err := view.ParseStatus(string(sess.Status))
	if err != nil {
		c.logger.Warn("ignoring remembered status filter", "err", err)
		st = view.StatusAll
	}
	sess.Status = st
	if sess.Category == "" {
		sess.Category = view.AllCategories
	}
	return sess
}

// viewCmd implements 'todo view' command group.
func (c *cli) viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Inspect or clear the remembered list filters",
	}

	cmd.AddCommand(
		c.viewShowCmd(),
		c.viewResetCmd(),
	)

	return cmd
}

// viewShowCmd implements 'todo view show'.
func (c *cli) viewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the remembered filters",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			f := c.loadSession().Filter()
			c.print(c.formatter.FormatMessage(
				fmt.Sprintf("status=%s category=%s search=%q", f.Status, f.Category, f.Search)))
			return nil
		},
	}
}

// viewResetCmd implements 'todo view reset'.
func (c *cli) viewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the remembered filters",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !session.Exists(c.cfg.DataDir, c.sessionList()) {
				c.print(c.formatter.FormatMessage("No remembered view to reset"))
				return nil
			}
			if err := session.Delete(c.cfg.DataDir, c.sessionList()); err != nil {
				return err
			}
			c.print(c.formatter.FormatMessage("View reset"))
			return nil
		},
	}
}

// configCmd implements 'todo config'.
func (c *cli) configCmd() *cobra.Command {
	var example bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML (--json is not supported)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if c.jsonOutput {
				return errors.New("config is printed as TOML only; drop --json")
			}
			if example {
				c.print(config.ExampleConfig)
				return nil
			}
			return toml.NewEncoder(c.out).Encode(c.cfg)
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "Print a commented example config file instead")
	return cmd
}
