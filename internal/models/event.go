// internal/models/event.go
package models

// NotificationSettings is one per-event configuration row controlling
// whether and how each notification kind fires.
type NotificationSettings struct {
	EventID         string `json:"eventId"`
	EventName       string `json:"eventName"`
	Timezone        string `json:"timezone"`
	ReminderEnabled bool   `json:"reminderEnabled"`
	DigestEnabled   bool   `json:"digestEnabled"`
	LeadMinutes     int    `json:"leadMinutes"`
	FromName        string `json:"fromName"`
}
