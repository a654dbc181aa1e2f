// Package duration parses and formats the short human durations used for
// songs and time slots ("3:24", "324"), and a few text helpers that sit
// next to them in the edit forms.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxMinuteDigits bounds the minute part so min*60 cannot overflow.
const maxMinuteDigits = 6

var mmss = regexp.MustCompile(`^(\d{1,6})\s*:\s*(\d{1,2})$`)

// ParseStrict parses "m:ss". ok is false for anything malformed or when the
// seconds part is 60 or more; callers should ask the user again.
func ParseStrict(text string) (int, bool) {
	m := mmss.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	min, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	sec, err := strconv.Atoi(m[2])
	if err != nil || sec >= 60 {
		return 0, false
	}
	return min*60 + sec, true
}

// ParseCompact accepts either "m:ss" or a bare run of digits where the last
// two digits are seconds ("324" is 3:24, "45" is 0:45). Non-digits are ignored.
func ParseCompact(text string) (int, bool) {
	if strings.Contains(text, ":") {
		return ParseStrict(text)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0, false
	}

	minPart, secPart := "0", digits
	if len(digits) > 2 {
		minPart, secPart = digits[:len(digits)-2], digits[len(digits)-2:]
	}
	if len(minPart) > maxMinuteDigits {
		return 0, false
	}
	min, err := strconv.Atoi(minPart)
	if err != nil {
		return 0, false
	}
	sec, err := strconv.Atoi(secPart)
	if err != nil || sec >= 60 {
		return 0, false
	}
	return min*60 + sec, true
}

// FromParts builds a duration from separate minute/second inputs. Negative
// values count as zero and seconds past 59 carry into minutes.
func FromParts(min, sec int) int {
	if min < 0 {
		min = 0
	}
	if sec < 0 {
		sec = 0
	}
	return min*60 + sec
}

// Format renders seconds as "M:SS" with unpadded minutes.
func Format(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// FormatSigned is Format with a leading "-" for negative values ("-0:30").
func FormatSigned(sec int) string {
	if sec < 0 {
		return "-" + Format(-sec)
	}
	return Format(sec)
}

// NormalizeURL trims raw and prefixes https:// unless it already carries an
// http or https scheme. Empty input stays empty.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// UntitledLive is the fallback live title when neither a title nor a usable
// date is available.
const UntitledLive = "無題のライブ"

// AutoLiveTitle returns the trimmed title, or a dated fallback built from a
// "Y-M-D" date, or UntitledLive. The date parts are not validated; month
// and day are zero-padded to two digits.
func AutoLiveTitle(title, isoDate string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	parts := strings.Split(strings.TrimSpace(isoDate), "-")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return UntitledLive
	}
	return fmt.Sprintf("%s:%s年%s月%s日", UntitledLive, parts[0], pad2(parts[1]), pad2(parts[2]))
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
