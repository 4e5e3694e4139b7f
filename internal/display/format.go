package display

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultWidth = 80
	minWidth     = 40
)

// TermWidth returns COLUMNS minus a two-column margin, never below 40.
// Without COLUMNS it falls back to 80.
func TermWidth() int {
	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		return max(cols-2, minWidth)
	}
	return defaultWidth
}

// RelativeTime renders an RFC 3339 timestamp relative to now: "just now",
// "5m ago", "3h ago", "2d ago", then YYYY-MM-DD after a week. Unparseable
// input is returned unchanged.
func RelativeTime(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.Format(time.DateOnly)
	}
}

// Label turns a snake_case server value into Title Case.
func Label(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Count formats an integer with thousands separators.
func Count[T ~int64 | ~uint64 | ~int](n T) string {
	return humanize.Comma(int64(n))
}

// wrap breaks text into lines of at most width runes on word boundaries.
// Existing newlines are kept; words longer than width are split.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur strings.Builder
		curLen := 0
		for _, w := range words {
			for utf8.RuneCountInString(w) > width {
				if curLen > 0 {
					lines = append(lines, cur.String())
					cur.Reset()
					curLen = 0
				}
				r := []rune(w)
				lines = append(lines, string(r[:width]))
				w = string(r[width:])
			}
			if w == "" {
				continue
			}
			wl := utf8.RuneCountInString(w)
			switch {
			case curLen == 0:
				cur.WriteString(w)
				curLen = wl
			case curLen+1+wl <= width:
				cur.WriteByte(' ')
				cur.WriteString(w)
				curLen += 1 + wl
			default:
				lines = append(lines, cur.String())
				cur.Reset()
				cur.WriteString(w)
				curLen = wl
			}
		}
		if curLen > 0 {
			lines = append(lines, cur.String())
		}
	}
	return lines
}
