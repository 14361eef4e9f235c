// Package models holds the request and response bodies of the vitapick API.
package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SocialSignupRequest completes a sign-up started by a social login. The
// signup token comes from the social callback.
type SocialSignupRequest struct {
	SignupToken string `json:"signupToken"`
	Email       string `json:"email,omitempty"`
	Nickname    string `json:"nickname"`
	Gender      string `json:"gender,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	AgreeTerms  bool   `json:"agreeTerms"`
}

type FCMTokenRequest struct {
	FCMToken   string `json:"fcmToken"`
	DeviceType string `json:"deviceType"`
}
