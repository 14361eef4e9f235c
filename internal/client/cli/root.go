package cli

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/vitapick/internal/client/config"
	"github.com/dmitrijs2005/vitapick/internal/client/metrics"
	"github.com/spf13/cobra"
)

// rootOptions carries persistent flag values and the lazily built App.
type rootOptions struct {
	configPath     string
	baseURL        string
	logLevel       string
	dbPath         string
	refreshTimeout time.Duration
	pushToken      string
	pushPermission string
	showMetrics    bool

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	app *App
}

// Execute runs the command line given by args and releases the App
// afterwards.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	o := &rootOptions{in: bufio.NewReader(in), out: out, errOut: errOut}

	cmd := newRootCommand(o)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)

	if o.app != nil {
		if o.showMetrics {
			_ = metrics.Write(errOut, o.app.registry)
		}
		_ = o.app.Close()
	}
	return err
}

func newRootCommand(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:          "vitapick",
		Short:        "Command-line client for the vitapick supplement service",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "path to a JSON config file")
	pf.StringVar(&o.baseURL, "base-url", "", "API base URL")
	pf.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&o.dbPath, "db", "", "path to the local session database")
	pf.DurationVar(&o.refreshTimeout, "refresh-timeout", 0, "timeout for a token refresh")
	pf.StringVar(&o.pushToken, "push-token", "", "device push token")
	pf.StringVar(&o.pushPermission, "push-permission", "", "notification permission (default, granted, denied)")
	pf.BoolVar(&o.showMetrics, "metrics", false, "print client counters on exit")

	root.AddCommand(
		newLoginCommand(o),
		newLogoutCommand(o),
		newStatusCommand(o),
		newSocialCallbackCommand(o),
		newSignupCommand(o),
		newMeCommand(o),
		newSettingsCommand(o),
		newSearchCommand(o),
		newPopularCommand(o),
		newLikesCommand(o),
		newLikeCommand(o, true),
		newLikeCommand(o, false),
		newRecommendCommand(o),
		newAnalyzeCommand(o),
		newPushCommand(o),
		newDashboardCommand(o),
	)
	return root
}

// App builds the App on first use. Flags set on the command line override
// the file and environment configuration.
func (o *rootOptions) App(cmd *cobra.Command) (*App, error) {
	if o.app != nil {
		return o.app, nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	o.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app, err := NewApp(cmd.Context(), cfg, o.out, o.errOut)
	if err != nil {
		return nil, err
	}
	o.app = app
	return app, nil
}

func (o *rootOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("db") {
		cfg.DBPath = o.dbPath
	}
	if f.Changed("refresh-timeout") {
		cfg.RefreshTimeout = o.refreshTimeout
	}
	if f.Changed("push-token") {
		cfg.PushDeviceToken = o.pushToken
	}
	if f.Changed("push-permission") {
		cfg.PushPermission = o.pushPermission
	}
}

// run adapts an App-level handler to cobra's RunE.
func (o *rootOptions) run(fn func(ctx context.Context, a *App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.App(cmd)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), a, cmd, args)
	}
}
