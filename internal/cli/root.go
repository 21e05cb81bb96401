// Package cli implements the thread command line. It plays the role of a
// single browser profile: the signed-in user is remembered by the store
// between invocations.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"go-thread/internal/app"
	"go-thread/internal/config"
	"go-thread/internal/domain"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/workforce"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Env is what commands run against. Close may be nil.
type Env struct {
	Services *app.Services
	Store    *workforce.Store
	Close    func() error
}

// OpenFunc builds the environment for one invocation.
type OpenFunc func(ctx context.Context, logger *zap.Logger) (*Env, error)

// OpenFromConfig opens the store configured by the environment.
func OpenFromConfig(ctx context.Context, logger *zap.Logger) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, kv, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc, err := app.NewServices(cfg, store, kv, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &Env{Services: svc, Store: store, Close: store.Close}, nil
}

type runner struct {
	open    OpenFunc
	env     *Env
	verbose bool
	asJSON  bool
}

func NewRootCommand(open OpenFunc) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:           "thread",
		Short:         "THREAD workforce store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			apperror.Init()
			logger := zap.NewNop()
			if r.verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
			}
			zap.ReplaceGlobals(logger)

			env, err := r.open(cmd.Context(), logger)
			if err != nil {
				return err
			}
			r.env = env
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if r.env == nil || r.env.Close == nil {
				return nil
			}
			return r.env.Close()
		},
	}
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "log to stderr")
	root.PersistentFlags().BoolVar(&r.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		r.signupCommand(),
		r.loginCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.passwdCommand(),
		r.employeesCommand(),
		r.attendanceCommand(),
		r.leaveCommand(),
		r.payrollCommand(),
		r.companiesCommand(),
		r.dashboardCommand(),
		r.exportCommand(),
		r.importCommand(),
	)
	return root
}

// Execute runs the command line and reports a failure on stderr.
func Execute(ctx context.Context, root *cobra.Command) int {
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		if code := apperror.CodeOf(err); code != "" {
			fmt.Fprintln(root.ErrOrStderr(), "code:", code)
		}
		return 1
	}
	return 0
}

func (r *runner) svc() *app.Services {
	return r.env.Services
}

// session returns the signed-in user's session, or the zero session.
func (r *runner) session(ctx context.Context) domain.Session {
	sess, _ := r.svc().Auth.CurrentSession(ctx)
	return sess
}

// print writes v as JSON with --json, otherwise through human.
func (r *runner) print(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if r.asJSON || human == nil {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	human(tw)
	return tw.Flush()
}
