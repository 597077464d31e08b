// internal/models/schedule.go
package models

import "time"

// Registration statuses as stored on registration rows.
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusAttended   = "attended"
	RegistrationStatusCancelled  = "cancelled"
)

// ScheduleRow is one schedule record linking a recipient, a session and a
// location/booth within an event, as returned by the joined schedule query.
type ScheduleRow struct {
	EventID   string
	EventName string

	AttendeeID    string
	AttendeeEmail string
	FirstName     string
	LastName      string

	SessionID   string
	SessionName string
	Description string
	Speaker     string
	Location    string

	StartsAt time.Time
	EndsAt   time.Time

	Status string
}

// ScanRow is one booth/session check-in scan used by the analytics aggregation.
type ScanRow struct {
	SessionID   string
	SessionName string
	BoothID     string
	BoothName   string
	Capacity    int
	AttendeeID  string
	ScannedAt   time.Time
}
