// Package common contains shared constants and sentinel errors used across
// vitapick client components.
package common

// Outbound header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-Id"
	BearerPrefix            = "Bearer "
)

// REST endpoints consumed by the client. Paths are relative to the
// configured base URL.
const (
	LoginPath              = "/api/v1/auth/login"
	RefreshPath            = "/api/v1/auth/refresh"
	SocialSignupPath       = "/api/v1/auth/social-signup"
	MePath                 = "/api/v1/users/me"
	FCMTokenPath           = "/api/v1/users/me/fcm-token"
	NotificationSettingsMe = "/api/v1/notification-settings/me"
	SupplementSearchPath   = "/api/v1/supplements/search"
	PopularSupplementsPath = "/api/v1/supplements/popular-supplements"
	SupplementLikesMePath  = "/api/v1/supplements/likes/me"
	SupplementsPath        = "/api/v1/supplements"
	CombinationAnalyzePath = "/api/v1/combinations/analyze"
	CombinationRecommend   = "/api/v1/combinations/recommend"
)

// PublicPathPrefixes never carry an Authorization header.
var PublicPathPrefixes = []string{
	CombinationRecommend,
	SupplementSearchPath,
}

// CredentialPaths exchange credentials for a session. A 401 from them is a
// rejected credential, not an expired session.
var CredentialPaths = []string{
	LoginPath,
	SocialSignupPath,
}

// LoginEntryPoint is where the user is sent after an unrecoverable auth failure.
const LoginEntryPoint = "/login"

// DeviceTypeWeb is the platform discriminator sent with push token upserts.
const DeviceTypeWeb = "WEB"
