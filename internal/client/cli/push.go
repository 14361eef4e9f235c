package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vitapick/internal/client/push"
	"github.com/spf13/cobra"
)

func newPushCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push notification commands",
	}
	cmd.AddCommand(newPushSyncCommand(o), newPushNotifyCommand(o))
	return cmd
}

func newPushSyncCommand(o *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Register this device's push token with the backend",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "prompt for permission and report why a sync failed")

	cmd.RunE = o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
		if !force {
			if a.sync.SyncSilent(ctx) {
				fmt.Fprintln(a.out, "Push token synced")
			} else {
				fmt.Fprintln(a.out, "Push token not synced")
			}
			return nil
		}

		res := a.sync.SyncForced(ctx)
		if !res.OK {
			return fmt.Errorf("push token not synced: %s", describeReason(res.Reason))
		}
		fmt.Fprintln(a.out, "Push token synced")
		return nil
	})
	return cmd
}

// newPushNotifyCommand delivers a message locally, as the messaging provider
// does when a push arrives while the app is open.
func newPushNotifyCommand(o *rootOptions) *cobra.Command {
	var msg push.Message

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Deliver a foreground notification to this client",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&msg.Title, "title", "vitapick", "notification title")
	cmd.Flags().StringVar(&msg.Body, "body", "", "notification body")

	cmd.RunE = o.run(func(_ context.Context, a *App, _ *cobra.Command, _ []string) error {
		if a.provider.Deliver(msg) == 0 {
			fmt.Fprintln(a.out, "No subscribers")
		}
		return nil
	})
	return cmd
}

func describeReason(r push.Reason) string {
	switch r {
	case push.ReasonNoAccessToken:
		return "not signed in"
	case push.ReasonNotSupported:
		return "push messaging is not available on this device"
	case push.ReasonChannelError:
		return "the delivery channel could not be registered"
	case push.ReasonPermissionDenied:
		return "notification permission was denied"
	case push.ReasonPermissionBlocked:
		return "notifications are blocked"
	case push.ReasonNoToken:
		return "no device push token (set push_device_token)"
	case push.ReasonUpsertFailed:
		return "the backend rejected the token"
	case push.ReasonInFlight:
		return "another sync is running"
	default:
		return string(r)
	}
}
