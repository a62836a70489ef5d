// Package timezone centralizes timezone math: free-form user time text is
// interpreted in the user's preferred location and stored as UTC, and stored
// UTC instants are localized only at the display boundary. Keeping both
// directions here avoids scattering naive/aware time mixing around the bot.
package timezone

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
)

// DisplayLayout is the fixed user-facing timestamp format: DD/MM/YY HH:MM,
// 24-hour clock.
const DisplayLayout = "02/01/06 15:04"

// codes maps the supported short codes to IANA location names. Extending the
// supported set is a matter of adding a row here.
var codes = map[string]string{
	"BST":  "Europe/London",
	"GMT":  "Europe/London",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
}

// Supported reports whether the short code is in the supported set.
func Supported(code string) bool {
	_, ok := codes[code]
	return ok
}

// Codes returns the supported short codes in stable order.
func Codes() []string {
	out := make([]string, 0, len(codes))
	for code := range codes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Location resolves a short code to its IANA location.
func Location(code string) (*time.Location, error) {
	name, ok := codes[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errorz.ErrUnknownTimezone, code)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %s: %w", name, err)
	}
	return loc, nil
}

// ToUTC interprets free-form date/time text as wall-clock time in the given
// location and converts it to UTC. Accepts MM/DD/YY HH:MM style input along
// with the other formats dateparse understands.
func ToUTC(text string, loc *time.Location) (time.Time, error) {
	parsed, err := dateparse.ParseIn(text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errorz.ErrUnparseableTime, text)
	}
	return parsed.UTC(), nil
}

// FormatLocal renders a UTC instant in the given location using the fixed
// display layout.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}
