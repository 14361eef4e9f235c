package models

type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Nickname  string  `json:"nickname"`
	Gender    string  `json:"gender,omitempty"`
	BirthDate string  `json:"birthDate,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// UpdateUserRequest carries only the fields being changed.
type UpdateUserRequest struct {
	Nickname  *string  `json:"nickname,omitempty"`
	Gender    *string  `json:"gender,omitempty"`
	BirthDate *string  `json:"birthDate,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
}

type NotificationSettings struct {
	IntakeReminder bool   `json:"intakeReminder"`
	ReminderTime   string `json:"reminderTime,omitempty"`
	Announcement   bool   `json:"announcement"`
	Marketing      bool   `json:"marketing"`
}
