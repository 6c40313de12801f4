package watcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"

	g "github.com/reoring/esguard"
)

// Watcher cron expressions carry a seconds field, accept "?" for day of
// month or week, and may end with a year.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var yearField = regexp.MustCompile(`^(\*|[0-9]{4}(-[0-9]{4})?)(/[0-9]+)?(,[0-9]{4}(-[0-9]{4})?)*$`)

func checkCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) == 7 {
		if !yearField.MatchString(fields[6]) {
			return fmt.Errorf("invalid year field %q", fields[6])
		}
		fields = fields[:6]
	}
	if _, err := cronParser.Parse(strings.Join(fields, " ")); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

var timeOfDay = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

func checkTimeOfDay(s string) error {
	if s == "noon" || s == "midnight" || timeOfDay.MatchString(s) {
		return nil
	}
	return fmt.Errorf("%q is not a time of day", s)
}

// Formats registers the string formats the watch grammar references.
func Formats() []g.ValidatorOption {
	return []g.ValidatorOption{
		g.WithFormat("cron", checkCron),
		g.WithFormat("time_of_day", checkTimeOfDay),
	}
}
