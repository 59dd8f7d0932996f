package regulation

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank ordena a fila do regulador: high antes de medium antes de normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ===============================
// Attendance outcome
// ===============================

type AttendanceResult string

const (
	ResultUnset    AttendanceResult = ""
	ResultAttended AttendanceResult = "attended"
	ResultNoShow   AttendanceResult = "no_show"
)

func (r AttendanceResult) Valid() bool {
	return r == ResultAttended || r == ResultNoShow
}
