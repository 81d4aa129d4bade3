package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/session"
	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/view"
)

func completeCategories(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return task.Categories(), cobra.ShellCompDirectiveNoFileComp
}

func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return task.Priorities(), cobra.ShellCompDirectiveNoFileComp
}

// addCmd implements 'todo add'.
func (c *cli) addCmd() *cobra.Command {
	var category, priority, due string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("category") {
				category = c.cfg.Defaults.Category
			}
			if !cmd.Flags().Changed("priority") {
				priority = c.cfg.Defaults.Priority
			}
			if err := validateDueDate(due, c.clock); err != nil {
				return err
			}

			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.Create(cmd.Context(), task.Input{
				Text:     strings.Join(args, " "),
				Category: category,
				Priority: priority,
				DueDate:  due,
			})
			if err != nil {
				return err
			}
			c.logger.Info("task added", "id", t.ID)
			c.print(c.formatter.FormatTask(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (work, personal, shopping, health, other)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)
	_ = cmd.RegisterFlagCompletionFunc("priority", completePriorities)
	return cmd
}

// editCmd implements 'todo edit'. Flags left unset keep the task's current values.
func (c *cli) editCmd() *cobra.Command {
	var text, category, priority, due string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's text, category, priority or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			existing, ok := store.Get(args[0])
			if !ok {
				return todoerrors.TaskNotFoundError{ID: args[0]}
			}

			in := existing.Input()
			flags := cmd.Flags()
			if flags.Changed("text") {
				in.Text = text
			}
			if flags.Changed("category") {
				in.Category = category
			}
			if flags.Changed("priority") {
				in.Priority = priority
			}
			if flags.Changed("due") {
				if err = validateDueDate(due, c.clock); err != nil {
					return err
				}
				in.DueDate = due
			}

			t, err := store.Update(cmd.Context(), existing.ID, in)
			if err != nil {
				return err
			}
			c.logger.Info("task updated", "id", t.ID)
			c.print(c.formatter.FormatTask(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "New task text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date (YYYY-MM-DD, empty to clear)")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)
	_ = cmd.RegisterFlagCompletionFunc("priority", completePriorities)
	return cmd
}

// toggleCmd implements 'todo toggle'.
func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or pending again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.ToggleCompletion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if t.Completed {
				c.logger.Info("task completed", "id", t.ID)
			} else {
				c.logger.Info("task reopened", "id", t.ID)
			}
			c.print(c.formatter.FormatTask(t))
			return nil
		},
	}
}

// rmCmd implements 'todo rm'.
func (c *cli) rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			t, ok := store.Get(args[0])
			if !ok {
				return todoerrors.TaskNotFoundError{ID: args[0]}
			}

			if !yes {
				prompt := fmt.Sprintf("Are you sure you want to delete %q?", t.Text)
				confirmed, confirmErr := confirm(c.in, c.errOut, prompt)
				if confirmErr != nil {
					return confirmErr
				}
				if !confirmed {
					c.print(c.formatter.FormatMessage("Deletion cancelled"))
					return nil
				}
			}

			if _, err = store.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			c.logger.Info("task deleted", "id", t.ID)
			c.print(c.formatter.FormatMessage(fmt.Sprintf("Removed task %s", t.ID)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

// showCmd implements 'todo show'.
func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			t, ok := store.Get(args[0])
			if !ok {
				return todoerrors.TaskNotFoundError{ID: args[0]}
			}
			c.print(c.formatter.FormatTask(t))
			return nil
		},
	}
}

// listCmd implements 'todo list'. Filter flags are remembered for later calls.
func (c *cli) listCmd() *cobra.Command {
	var status, category, search string
	var reset bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks matching the current view",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := c.loadSession()
			if reset {
				sess = &session.Session{Status: view.StatusAll, Category: view.AllCategories}
			}

			flags := cmd.Flags()
			if flags.Changed("status") {
				st, err := view.ParseStatus(status)
				if err != nil {
					return err
				}
				sess.Status = st
			}
			if flags.Changed("category") {
				sess.Category = category
				if sess.Category == "" {
					sess.Category = view.AllCategories
				}
			}
			if flags.Changed("search") {
				sess.Search = search
			}
			if reset || flags.Changed("status") || flags.Changed("category") || flags.Changed("search") {
				if err := session.Save(c.cfg.DataDir, c.sessionList(), sess); err != nil {
					c.logger.Warn("could not remember view", "err", err)
				}
			}

			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			filter := sess.Filter()
			c.print(c.formatter.FormatTaskList(view.FilteredTasks(store.Tasks(), filter), filter))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status filter (all, pending, completed)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category filter (all or an exact category)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Case-insensitive text search (empty to clear)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Clear remembered filters before applying flags")
	_ = cmd.RegisterFlagCompletionFunc("status", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(view.StatusAll), string(view.StatusPending), string(view.StatusCompleted)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return append([]string{view.AllCategories}, task.Categories()...), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// statsCmd implements 'todo stats'.
func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total, pending and completed counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			c.print(c.formatter.FormatStats(view.ComputeStats(store.Tasks())))
			return nil
		},
	}
}
