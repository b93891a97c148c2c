package models

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusCanceled = "canceled"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	// DateLayout is the calendar-day format used in the API and the database.
	DateLayout = "2006-01-02"

	// TimeLayout is the wall-clock format for reservation intervals.
	// Zero-padded HH:MM compares correctly as a string.
	TimeLayout = "15:04"
)

const (
	// WorkerQueueSize is the in-memory sync queue capacity.
	WorkerQueueSize = 1000

	// DefaultExportRangeMonthsBefore/After bound the export period
	// when the caller does not pass explicit dates.
	DefaultExportRangeMonthsBefore = 1
	DefaultExportRangeMonthsAfter  = 2
)

// IsValidStatus reports whether s is one of the reservation statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// IsTerminalStatus reports whether no further transition is permitted from s.
func IsTerminalStatus(s string) bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}
