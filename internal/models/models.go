package models

import "time"

// User is the backend's view of the authenticated caller. Guest users are
// created by the backend on first contact and identified by a locally
// persisted guest id afterwards.
type User struct {
	ID         int64  `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsGuest    bool   `json:"is_guest"`
}

// Question is an externally supplied unit of display. The flow controller
// treats it as opaque apart from its id and sphere.
type Question struct {
	ID     int64  `json:"id"`
	Sphere string `json:"sphere"`
	Text   string `json:"text"`
	Type   string `json:"type"`
}

// Answer is a free-text response to a question. Answers are stored by the
// backend, never locally.
type Answer struct {
	QuestionID int64  `json:"question_id"`
	Text       string `json:"answer"`
}

// DayState is the per-calendar-day flow record. Counters reset to zero and
// ActiveSphereIndex returns to 0 whenever Date no longer matches the current
// day, or after a successful answer submission.
type DayState struct {
	UserKey            string `json:"-"`
	Date               string `json:"date"`
	SkipCount          int    `json:"skip_count"`
	NotUnderstoodCount int    `json:"not_understood_count"`
	ActiveSphereIndex  int    `json:"active_sphere_index"`
}

// Flow event kinds recorded in the local event log.
const (
	FlowEventSkip          = "skip"
	FlowEventSkipAll       = "skip_all"
	FlowEventNotUnderstood = "not_understood"
	FlowEventAnswered      = "answered"
)

// FlowEvent is a local append-only record of a flow action, used by the
// daily summary to show what the user worked on.
type FlowEvent struct {
	ID         int64     `json:"id"`
	UserKey    string    `json:"-"`
	Date       string    `json:"date"`
	Kind       string    `json:"kind"`
	Sphere     string    `json:"sphere,omitempty"`
	QuestionID int64     `json:"question_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FlowEventFilter narrows flow event listings.
type FlowEventFilter struct {
	UserKey string
	Date    string
	Kind    string
	Sphere  string
	Limit   int
	Offset  int
}

// Settings mirrors the backend's per-user settings document. DarkTheme is
// additionally cached locally so the theme survives backend outages.
type Settings struct {
	NotificationTime      *string `json:"notification_time"`
	Language              string  `json:"language"`
	IsPaused              bool    `json:"is_paused"`
	WeeklyReportFrequency string  `json:"weekly_report_frequency"`
	ReminderFrequency     string  `json:"reminder_frequency"`
	DarkTheme             bool    `json:"dark_theme"`
}

// SettingsUpdate carries a partial settings change. Nil fields are left
// untouched by the backend.
type SettingsUpdate struct {
	NotificationTime      *string `json:"notification_time,omitempty"`
	Language              *string `json:"language,omitempty"`
	IsPaused              *bool   `json:"is_paused,omitempty"`
	WeeklyReportFrequency *string `json:"weekly_report_frequency,omitempty"`
	ReminderFrequency     *string `json:"reminder_frequency,omitempty"`
	DarkTheme             *bool   `json:"dark_theme,omitempty"`
}

// SphereRating is a subjective 1-10 rating of one life sphere.
type SphereRating struct {
	Sphere    string    `json:"sphere"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// WeeklySummary aggregates the last week of answers and ratings.
type WeeklySummary struct {
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	AnswersCount int                `json:"answers_count"`
	Ratings      []SphereRating     `json:"ratings"`
	Deltas       map[string]float64 `json:"deltas"`
}

// MonthlyReport aggregates a month of answers and ratings, including the
// per-sphere trend deltas the radar chart renders.
type MonthlyReport struct {
	Month        string             `json:"month"`
	AnswersCount int                `json:"answers_count"`
	Ratings      []SphereRating     `json:"ratings"`
	Deltas       map[string]float64 `json:"deltas"`
	FocusSpheres []string           `json:"focus_spheres"`
}
