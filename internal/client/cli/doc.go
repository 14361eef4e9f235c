// Package cli provides the vitapick command-line client.
//
// Each command maps to a screen of the app: login and social sign-in,
// profile and notification settings, supplement search and likes,
// combination analysis, and the home dashboard. Commands share one App,
// which wires configuration, the local token store, the refreshing HTTP
// client and the push-token synchronizer.
//
// Run via Execute, usually from cmd/client.
package cli
