package jobtree

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/commands"
	"github.com/davidmrtn/jobtree/pkg/config"
	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/namespace/sqlitestore"
	"github.com/davidmrtn/jobtree/pkg/relocate"
	"github.com/davidmrtn/jobtree/pkg/style"
)

// env is everything a verb needs to run: the persistent store and the acting
// user's permission policy.
type env struct {
	cfg   *config.Config
	store *sqlitestore.Store
	authz *auth.Policy
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	dbPath := cfg.DBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf(MsgErrOpenStore, err)
	}
	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf(MsgErrOpenStore, err)
	}

	return &env{cfg: cfg, store: store, authz: cfg.Authorizer()}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close store")
	}
}

// displayName renders a node's full name, with the root shown as its token.
func displayName(n *namespace.Node) string {
	if n.IsRoot() {
		return namespace.RootToken
	}
	return n.FullName()
}

func newMoveCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:     "move FOLDER ITEM...",
		Short:   MsgMoveShort,
		Long:    MsgMoveLong,
		Example: MsgMoveExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			result, err := commands.Move(commands.MoveOptions{
				Store:  e.store,
				Auth:   e.authz,
				Folder: args[0],
				Items:  args[1:],
				Create: create,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), style.RenderResult(result))
			if result.Code != relocate.CodeSuccess {
				return &exitError{code: result.Code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "c", false, MsgFlagCreate)
	return cmd
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mkdir PATH",
		Short:   MsgMkdirShort,
		Long:    MsgMkdirLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			folder, err := commands.CreateFolder(commands.CreateFolderOptions{
				Store: e.store,
				Auth:  e.authz,
				Path:  args[0],
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgFolderCreated, folder.FullName())
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:     "add PATH",
		Short:   MsgAddShort,
		Long:    MsgAddLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var jobConfig string
			if configFile != "" {
				data, err := os.ReadFile(configFile)
				if err != nil {
					return fmt.Errorf(MsgErrReadConfig, configFile, err)
				}
				jobConfig = string(data)
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			job, err := commands.AddJob(commands.AddJobOptions{
				Store:  e.store,
				Auth:   e.authz,
				Path:   args[0],
				Config: jobConfig,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgJobCreated, job.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", MsgFlagConfig)
	return cmd
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [PATH]",
		Short:   MsgLsShort,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			start := e.store.Root()
			if len(args) == 1 {
				start = e.store.Lookup(args[0])
				if start == nil {
					return errors.Newf(errors.ErrNotFound, "no such item '%s'", args[0])
				}
			}

			rendered, err := style.RenderTree(start)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func newDestinationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "destinations ITEM",
		Short:   MsgDestinationsShort,
		Long:    MsgDestinationsLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			dests, err := commands.Destinations(commands.DestinationsOptions{
				Store: e.store,
				Auth:  e.authz,
				Item:  args[0],
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(dests) == 0 {
				fmt.Fprintf(out, MsgNoDestinations, args[0])
				return nil
			}
			for _, d := range dests {
				fmt.Fprintf(out, MsgDestinationItem, displayName(d))
			}
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "import FILE",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf(MsgErrReadSeed, args[0], err)
			}
			defer func() { _ = f.Close() }()

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := commands.Import(commands.ImportOptions{
				Store: e.store,
				Auth:  e.authz,
				Seed:  f,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgImported, args[0])
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "history ITEM",
		Short:   MsgHistoryShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			builds, err := commands.History(commands.HistoryOptions{
				Store: e.store,
				Item:  args[0],
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(builds) == 0 {
				fmt.Fprintf(out, MsgNoBuilds, args[0])
				return nil
			}
			for _, b := range builds {
				fmt.Fprintf(out, MsgBuildItem, b.Number, b.Status, b.Started.Format(time.RFC3339))
			}
			return nil
		},
	}
}
