package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/app"
	"github.com/Freeeeeet/mentor_connect_bot/internal/config"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/router"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/Freeeeeet/mentor_connect_bot/internal/service"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

// cliScope единственная сессия CLI в файле
const cliScope int64 = 0

// cliApp зависимости, общие для всех подкоманд
type cliApp struct {
	flags struct {
		apiURL      string
		sessionFile string
		verbose     bool
	}

	logger *zap.Logger
	store  *session.Store
	api    *apiclient.Client
	auth   *service.AuthService
	dash   *service.DashboardService

	// подсказка о входе печатается один раз, даже если отказали несколько параллельных запросов
	authHint sync.Once
}

func newRootCmd() *cobra.Command {
	a := &cliApp{}

	rootCmd := &cobra.Command{
		Use:   "mentorctl",
		Short: "Command-line client for the Mentor Connect backend",
		Long: "mentorctl talks to the Mentor Connect REST backend.\n" +
			"Log in once with 'mentorctl login'; the session is kept in a local file.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.flags.apiURL, "api-url", "", "Backend base URL (default $API_BASE_URL or "+config.DefaultAPIBaseURL+")")
	f.StringVar(&a.flags.sessionFile, "session-file", "", "Session file (default $MENTORCTL_SESSION_FILE)")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Log every API request to stderr")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAdminCmd(a),
		newMentorCmd(a),
		newMenteeCmd(a),
	)
	return rootCmd
}

func (a *cliApp) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return err
	}
	if a.flags.apiURL != "" {
		cfg.API.BaseURL = a.flags.apiURL
	}
	if a.flags.sessionFile != "" {
		cfg.SessionFile = a.flags.sessionFile
	}

	a.logger = app.NewCLILogger(cfg.Environment, a.flags.verbose)
	if !cfg.DotEnvLoaded {
		a.logger.Debug("No .env file found, using environment variables")
	}
	a.store = session.NewStore(session.NewFileBackend(cfg.SessionFile), a.logger)

	stderr := cmd.ErrOrStderr()
	a.api, err = apiclient.New(cfg.API.BaseURL, a.store, a.logger,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithUnauthorizedHandler(func(context.Context, int64) {
			a.authHint.Do(func() {
				fmt.Fprintln(stderr, "Session expired or access denied. Run 'mentorctl login' to sign in again.")
			})
		}),
	)
	if err != nil {
		return err
	}

	a.auth = service.NewAuthService(a.api, a.store, a.logger)
	a.dash = service.NewDashboardService(a.api, a.logger)
	return nil
}

func (a *cliApp) conn() *apiclient.Conn {
	return a.api.For(cliScope)
}

// requireRole проверяет сессию так же, как бот перед защищённым разделом
func (a *cliApp) requireRole(ctx context.Context, role model.Role) (*model.User, error) {
	user, err := a.auth.CurrentUser(ctx, cliScope)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	switch router.Resolve(user, role) {
	case router.Unauthenticated:
		return nil, fmt.Errorf("not logged in: run 'mentorctl login' first")
	case router.WrongRole:
		return nil, fmt.Errorf("this command requires the %s role (logged in as %s, %s)", role, user.Name, user.Role)
	}
	return user, nil
}
