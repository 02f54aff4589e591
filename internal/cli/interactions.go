package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/integrations/interactions"
)

// interactionsCommand creates the "interactions" command for the local
// SQLite interaction database.
func (c *CLI) interactionsCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "interactions",
		Short: "Manage the local interaction database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (default databases.sqlite_path from config)")

	cmd.AddCommand(c.interactionsImportCommand(&dbPath))
	cmd.AddCommand(c.interactionsCountCommand(&dbPath))
	return cmd
}

// openInteractions opens the store named by --db or the config.
func (c *CLI) openInteractions(dbPath string) (*interactions.Store, error) {
	if dbPath == "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		dbPath = cfg.Databases.SQLitePath
	}
	if dbPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no database: pass --db or set databases.sqlite_path")
	}
	return interactions.OpenStore(dbPath)
}

func (c *CLI) interactionsImportCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.tsv|->",
		Short: "Import tab-separated interactions",
		Long: `Import interactions from a tab-separated file, one per line:

  a_source  a_id  a_kind  a_label  b_source  b_id  b_kind  b_label  [evidence]

Lines starting with # are ignored. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			store, err := c.openInteractions(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			prog := newProgress(logger)
			n, err := store.Import(ctx, r)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			prog.done(fmt.Sprintf("Imported %d interactions", n))

			total, err := store.Count(ctx)
			if err != nil {
				return err
			}
			printSuccess("Imported %s interactions", StyleNumber.Render(fmt.Sprint(n)))
			printDetail("%d interactions stored", total)
			return nil
		},
	}
}

func (c *CLI) interactionsCountCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openInteractions(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
