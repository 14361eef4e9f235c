// Package client is the HTTP core every vitapick API call goes through.
//
// # Overview
//
// Client.Do sends a JSON request to the backend, decodes the uniform
// response envelope ({isSuccess, code, message, result}) and maps failures
// to *APIError values. Around that it implements the session protocol:
//
//  1. Authorization. Paths under a public prefix never carry an
//     Authorization header. The refresh endpoint never carries one either;
//     it authenticates with the refresh token in its body. Every other
//     request gets "Bearer <access token>" when a session exists.
//  2. Recovery. A 401 on a protected request triggers one access-token
//     refresh through a refresh.Gate, so a burst of 401s yields a single
//     refresh call. Each request is then retried at most once with the new
//     token.
//  3. Expiry. When the refresh endpoint itself answers 401, when no refresh
//     token is stored, or when the refresh fails for any reason (including
//     its timeout), the token store is cleared and the LoginRedirector is
//     invoked once.
//
// # Error Handling
//
// Callers match conditions with errors.Is: ErrUnauthorized, ErrUnavailable,
// ErrNotFound and common.ErrSessionExpired. *APIError carries the backend's
// code and message for display.
//
// Concurrency & Contexts
//
// A Client is safe for concurrent use. All operations honor ctx, except the
// refresh call, which runs detached from the caller that happened to start
// it and is bounded by its own timeout instead.
package client
