package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// NormalizePostedDate reduces a scraped posted-date to a plain ISO date
// where the format is recognizable. Anything unparsable is kept raw so
// the information is never thrown away.
func NormalizePostedDate(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return dateStr
	}

	//Case 1: ISO "2026-01-27" or "2026-01-27T..."
	if isoDateRegex.MatchString(dateStr) {
		if _, err := time.Parse("2006-01-02", dateStr[:10]); err == nil {
			return dateStr[:10]
		}
	}

	//case 2: dd/mm/yyyy
	if strings.Contains(dateStr, "/") {
		parts := strings.Split(dateStr, "/")
		if len(parts) == 3 {
			day, err1 := strconv.Atoi(parts[0])
			month, err2 := strconv.Atoi(parts[1])
			year, err3 := strconv.Atoi(parts[2])
			if err1 == nil && err2 == nil && err3 == nil && month >= 1 && month <= 12 {
				d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				return d.Format("2006-01-02")
			}
		}
	}

	//unparsable, keep raw
	return dateStr
}

// IsRecent reports whether a normalized posted date falls within the
// given number of days. Unparsable dates pass, the assessment phase is
// the place to judge them.
func IsRecent(dateStr string, days int) bool {
	if !isoDateRegex.MatchString(dateStr) {
		return true
	}
	jobDate, err := time.Parse("2006-01-02", dateStr[:10])
	if err != nil {
		return true
	}

	diff := time.Since(jobDate)
	if diff > time.Duration(days)*24*time.Hour {
		return false
	}
	//reject future dates beyond timezone slack
	if diff < -2*24*time.Hour {
		return false
	}
	return true
}
