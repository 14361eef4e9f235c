// Package push keeps the backend's record of this device's push token in
// step with the messaging provider.
//
// Synchronizer has two entry points. SyncSilent runs after login and on
// start-up: it never prompts for permission and reports only success. SyncForced
// runs on an explicit user action: it may prompt and reports a Reason on
// failure so the caller can explain it. Both are single-flight; a call that
// overlaps a running sync is dropped rather than queued, since the next
// trigger retries anyway. A token already upserted in this session is not
// sent again.
package push

import "context"

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps unknown values to PermissionDefault.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted, PermissionDenied:
		return Permission(s)
	default:
		return PermissionDefault
	}
}

// Messaging is the device-side push provider.
type Messaging interface {
	// Supported reports whether the runtime can receive push messages.
	Supported() bool
	// RegisterChannel registers the delivery channel messages arrive on.
	RegisterChannel(ctx context.Context) error
	// Permission returns the current notification permission without
	// prompting.
	Permission(ctx context.Context) Permission
	// RequestPermission prompts the user and returns the outcome.
	RequestPermission(ctx context.Context) (Permission, error)
	// Token returns the device's current push token.
	Token(ctx context.Context) (string, error)
}
