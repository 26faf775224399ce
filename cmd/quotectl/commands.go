package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// errOffline marks a sync that reached no server. The summary is already printed.
var errOffline = errors.New("remote unreachable")

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Manage the local quote collection",
		Long: `quotectl works directly on the quote keeper's store.

It reads the same configuration as the service: configs/base.yaml,
configs/{APP_ENVIRONMENT}.yaml, .env files and APP_ variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.noColor {
				color.NoColor = true
			}

			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return c.close()
		},
	}

	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configDir, "config-dir", c.configDir, "Directory holding base.yaml and profile files")
	flags.StringVar(&c.storeDriver, "store", "", "Store driver override: file, sqlite or memory")
	flags.StringVar(&c.storePath, "store-path", "", "Store path override")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level to stderr")
	flags.BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newListCommand(c),
		newAddCommand(c),
		newRandomCommand(c),
		newCategoriesCommand(c),
		newFilterCommand(c),
		newSearchCommand(c),
		newExportCommand(c),
		newImportCommand(c),
		newSyncCommand(c),
		newConflictsCommand(c),
		newResolveCommand(c),
	)

	return root
}

func newListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quotes through the saved filter and search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := c.quotes.List(cmd.Context())
			if err != nil {
				return err
			}

			status, err := c.syncer.Status(cmd.Context())
			if err != nil {
				return err
			}

			printView(c.out, view, status.LastSync)

			return nil
		},
	}
}

func newAddCommand(c *cli) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "add <text>...",
		Short:   "Add a local quote",
		Example: `  quotectl add "Simplicity is prerequisite for reliability." -c Wisdom`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.quotes.Add(cmd.Context(), strings.Join(args, " "), category)
			if err != nil {
				return err
			}

			printSuccess(c.out, "Added %s.", q.ID)
			printQuote(c.out, q)

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (default General)")

	return cmd
}

func newRandomCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random quote from the whole collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := c.quotes.Random(cmd.Context())
			if err != nil {
				return err
			}

			printQuote(c.out, q)

			return nil
		},
	}
}

func newCategoriesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := c.quotes.Categories(cmd.Context())
			if err != nil {
				return err
			}

			for _, name := range categories {
				_, _ = categoryColor.Fprintln(c.out, name)
			}

			return nil
		},
	}
}

func newFilterCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "filter [category]",
		Short: "Save the category filter; no argument shows all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := domain.FilterAll
			if len(args) == 1 {
				category = args[0]
			}

			view, err := c.quotes.SetFilter(cmd.Context(), category)
			if err != nil {
				return err
			}

			status, err := c.syncer.Status(cmd.Context())
			if err != nil {
				return err
			}

			printView(c.out, view, status.LastSync)

			return nil
		},
	}
}

func newSearchCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search [text]...",
		Short: "Save the search text; no argument clears it",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.quotes.SetSearch(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			status, err := c.syncer.Status(cmd.Context())
			if err != nil {
				return err
			}

			printView(c.out, view, status.LastSync)

			return nil
		},
	}
}

func newExportCommand(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.quotes.Export(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = c.out.Write(append(data, '\n'))
				return err
			}

			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			printSuccess(c.out, "Exported to %s.", output)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")

	return cmd
}

func newImportCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Append quotes from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)

			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}

			if err != nil {
				return fmt.Errorf("reading import: %w", err)
			}

			n, err := c.quotes.Import(cmd.Context(), data)
			if err != nil {
				return err
			}

			printSuccess(c.out, "Imported %d quote(s).", n)

			return nil
		},
	}
}

func newSyncCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push local changes, fetch from the server and merge",
		Long: `Push local changes, fetch from the server and merge.

Exits with status 2 when the server could not be reached; local data is unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.syncer.SyncNow(cmd.Context())
			offline := app.IsOffline(report, err)
			if err != nil && !offline {
				return err
			}

			if offline && !report.Offline {
				report = domain.SyncReport{Offline: true, Warning: domain.OfflineWarning}
			}

			printReport(c.out, report)

			if offline {
				return errOffline
			}

			return nil
		},
	}
}

func newConflictsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List conflicts awaiting review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conflicts, err := c.quotes.Conflicts(cmd.Context())
			if err != nil {
				return err
			}

			if len(conflicts) == 0 {
				printSuccess(c.out, "No conflicts.")
				return nil
			}

			for _, conflict := range conflicts {
				printConflict(c.out, conflict)
			}

			return nil
		},
	}
}

func newResolveCommand(c *cli) *cobra.Command {
	var keep string

	cmd := &cobra.Command{
		Use:     "resolve <conflict-id>",
		Short:   "Resolve a conflict by keeping one side",
		Example: `  quotectl resolve 0b9e2c9e-7f6c-4a8e-9a53-0d6a1b0c3f11 --keep local`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.quotes.ResolveConflict(cmd.Context(), args[0], keep); err != nil {
				return err
			}

			printSuccess(c.out, "Kept the %s version.", keep)

			return nil
		},
	}

	cmd.Flags().StringVar(&keep, "keep", "", "Side to keep: local or server")
	_ = cmd.MarkFlagRequired("keep")

	return cmd
}
