package views

import (
	"math"
	"time"

	"coachreports/internal/i18n"
	"coachreports/internal/models"
)

func contentIcon(loc *i18n.Localizer, kind models.ContentKind) ContentIconProps {
	return ContentIconProps{Kind: kind, Label: loc.T("kind." + string(kind))}
}

func progressBar(loc *i18n.Localizer, num float64, isExercise bool) ProgressBarProps {
	percent := int(math.Round(num * 100))
	return ProgressBarProps{
		Num:        num,
		IsExercise: isExercise,
		Percent:    percent,
		Text:       loc.T("progress.percent", percent),
	}
}

// elapsedTime renders t relative to now, e.g. "3 hours ago"
func elapsedTime(loc *i18n.Localizer, now time.Time, t *time.Time) ElapsedTimeProps {
	if t == nil {
		return ElapsedTimeProps{Text: loc.T("time.never")}
	}

	d := now.Sub(*t)
	var text string
	switch {
	case d < time.Minute:
		text = loc.T("time.just_now")
	case d < time.Hour:
		text = loc.T("time.minutes_ago", int(d/time.Minute))
	case d < 24*time.Hour:
		text = loc.T("time.hours_ago", int(d/time.Hour))
	default:
		text = loc.T("time.days_ago", int(d/(24*time.Hour)))
	}
	return ElapsedTimeProps{Date: t, Text: text}
}

// timeSpent renders seconds as whole minutes, or hours and minutes from an hour up
func timeSpent(loc *i18n.Localizer, seconds float64) string {
	minutes := int(math.Round(seconds / 60))
	if minutes < 60 {
		return loc.T("time.spent_minutes", minutes)
	}
	return loc.T("time.spent_hours", minutes/60, minutes%60)
}
