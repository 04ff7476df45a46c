package http

import (
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/schedule"
)

// Wire conventions shared by every handler: weekdays travel in the remote
// origin-zero encoding (0=Sunday..6=Saturday) and are converted to the ISO
// convention at this boundary; dates are YYYY-MM-DD strings, times of day
// HH:MM:SS, timestamps RFC3339.

const wireDateFormat = "2006-01-02"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.Format(wireDateFormat)
}

// remoteDayToISO validates a wire weekday and reports the failure as a field
// error so handlers respond with 422 rather than a bare 400.
func remoteDayToISO(remote int, field string) (schedule.ISODay, *application.ValidationError) {
	day, err := schedule.ISOFromRemote(remote)
	if err != nil {
		return 0, &application.ValidationError{FieldErrors: map[string]string{
			field: "must be between 0 (Sunday) and 6 (Saturday)",
		}}
	}
	return day, nil
}

func isoDayToRemote(day schedule.ISODay) int {
	remote, err := schedule.RemoteFromISO(day)
	if err != nil {
		return 0
	}
	return remote
}

func isoDaysToRemote(days []schedule.ISODay) []int {
	out := make([]int, 0, len(days))
	for _, day := range days {
		out = append(out, isoDayToRemote(day))
	}
	return out
}

type windowDTO struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toWindowDTO(window *schedule.TimeRange) *windowDTO {
	if window == nil {
		return nil
	}
	return &windowDTO{
		StartTime: window.Start.String(),
		EndTime:   window.End.String(),
	}
}
