package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the home screen",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			a.auth.Bootstrap(ctx)

			d, err := a.dashboard.Load(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Hello, %s\n\n", d.User.Nickname)
			printSettings(a.out, d.Notifications)
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "Liked supplements:")
			printSupplements(a.out, d.Liked)
			return nil
		}),
	}
}
