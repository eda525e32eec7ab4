// Package civildate projects instants onto the fixed GMT+1 civil calendar used
// for all business date logic, independent of the machine's local timezone.
package civildate

import (
	"time"

	"github.com/netojaycee/forecast-prices-app/pkg/constants"
)

// DateOnlyLayout is the string form of a civil date.
const DateOnlyLayout = constants.DateOnlyLayout

var businessZone = time.FixedZone(constants.BusinessZoneName, constants.BusinessZoneOffsetSeconds)

// Zone returns the fixed GMT+1 location all civil dates are computed in.
func Zone() *time.Location {
	return businessZone
}

// CivilDate is a calendar date in the fixed business offset, with no time of day.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// At projects an instant onto the fixed offset's calendar date.
func At(instant time.Time) CivilDate {
	y, m, d := instant.In(businessZone).Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Today returns the civil date of the given current instant.
func Today(now time.Time) CivilDate {
	return At(now)
}

// Parse reads a "YYYY-MM-DD" string as a civil date.
func Parse(value string) (CivilDate, error) {
	t, err := time.ParseInLocation(DateOnlyLayout, value, businessZone)
	if err != nil {
		return CivilDate{}, err
	}
	return At(t), nil
}

// MustParse parses a "YYYY-MM-DD" string and panics on error. Intended for
// tests where the value is known to be valid.
func MustParse(value string) CivilDate {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

// Before reports whether d falls on a strictly earlier day than other,
// ignoring time of day.
func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// StartOfDay returns the instant at midnight of d in the fixed offset.
func (d CivilDate) StartOfDay() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, businessZone)
}

// String formats d as "YYYY-MM-DD".
func (d CivilDate) String() string {
	return d.StartOfDay().Format(DateOnlyLayout)
}

// DisabledDay is the date-picker predicate: it reports whether the given day
// must be disabled because it precedes today in the fixed offset. The
// validation schema uses the same comparison, so a day disabled here always
// fails validation if submitted anyway, and vice versa.
func DisabledDay(day time.Time, now time.Time) bool {
	return At(day).Before(Today(now))
}
