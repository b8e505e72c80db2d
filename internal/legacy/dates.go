package legacy

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var dmyPattern = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)

// NormalizeDate converts the date spellings seen in legacy exports
// (DD-MM-YYYY, DD/MM/YYYY, ISO) to YYYY-MM-DD. Empty or unparseable values
// fall back to today, matching the source system's tolerance.
func NormalizeDate(raw string) string {
	return normalizeDateAt(raw, time.Now())
}

func normalizeDateAt(raw string, now time.Time) string {
	trimmed := trimQuotes(raw)
	if trimmed == "" {
		return now.Format("2006-01-02")
	}

	if m := dmyPattern.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}
