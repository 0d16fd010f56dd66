package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// variant tags for DateTime's tagged union.
type dtVariant uint8

const (
	dtEarliest dtVariant = iota
	dtPoint
	dtLatest
)

// DateTime is Earliest, a concrete calendar point, or Latest. The three
// variants are totally ordered: Earliest < Point(...) < Latest, and two
// Points compare lexicographically on (year, month, day, hour, minute,
// second). Daylight saving is not modelled; leap years are (the Gregorian
// %4/%100/%400 rule).
type DateTime struct {
	variant dtVariant
	point   civilPoint
}

type civilPoint struct {
	year                      int
	month, day                int
	hour, minute, second      int
}

// Earliest is a DateTime before every concrete point.
var Earliest = DateTime{variant: dtEarliest}

// Latest is a DateTime after every concrete point.
var Latest = DateTime{variant: dtLatest}

// NewPoint builds a concrete DateTime, validating calendar fields.
func NewPoint(year, month, day, hour, minute, second int) (DateTime, error) {
	if month < 1 || month > 12 {
		return DateTime{}, fmt.Errorf("%w: month %d out of range", ErrParse, month)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return DateTime{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrParse, day, year, month)
	}
	if hour < 0 || hour > 24 {
		return DateTime{}, fmt.Errorf("%w: hour %d out of range", ErrParse, hour)
	}
	if minute < 0 || minute >= 60 {
		return DateTime{}, fmt.Errorf("%w: minute %d out of range", ErrParse, minute)
	}
	if second < 0 || second >= 60 {
		return DateTime{}, fmt.Errorf("%w: second %d out of range", ErrParse, second)
	}
	return DateTime{variant: dtPoint, point: civilPoint{year, month, day, hour, minute, second}}, nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// ParseDateTime parses "YYYY-MM-DDThh:mm:ss" or "YYYY-MM-DDThh:mm", a
// trailing 'Z' is stripped first.
func ParseDateTime(s string) (DateTime, error) {
	orig := s
	s = strings.TrimSuffix(s, "Z")
	s = strings.Replace(s, " ", "T", 1)
	parts := strings.SplitN(s, "T", 2)
	if len(parts) != 2 {
		return DateTime{}, fmt.Errorf("%w: date-time %q missing date/time separator", ErrParse, orig)
	}
	dateParts := strings.Split(parts[0], "-")
	if len(dateParts) != 3 {
		return DateTime{}, fmt.Errorf("%w: date-time %q has malformed date", ErrParse, orig)
	}
	timeParts := strings.Split(parts[1], ":")
	if len(timeParts) < 2 || len(timeParts) > 3 {
		return DateTime{}, fmt.Errorf("%w: date-time %q has malformed time", ErrParse, orig)
	}

	ints := make([]int, 0, 6)
	for _, f := range append(append([]string{}, dateParts...), timeParts...) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return DateTime{}, fmt.Errorf("%w: date-time %q has non-numeric field %q", ErrParse, orig, f)
		}
		ints = append(ints, v)
	}
	second := 0
	if len(timeParts) == 3 {
		second = ints[5]
	}
	return NewPoint(ints[0], ints[1], ints[2], ints[3], ints[4], second)
}

// daysFromCivil converts a (year, month, day) triple into the day number
// relative to 1970-01-01, using Howard Hinnant's proleptic-Gregorian
// algorithm, so Add/Sub need no field-by-field carry/borrow loop.
func daysFromCivil(y, m, d int) int64 {
	yy := int64(y)
	if m <= 2 {
		yy--
	}
	era := yy
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := yy - era*400 // [0, 399]
	var mp int64
	if m > 2 {
		mp = int64(m) - 3
	} else {
		mp = int64(m) + 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1 // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int64) (y, m, d int) {
	z += 719468
	era := z
	if era < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097                                     // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365     // [0, 399]
	yy := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100) // [0, 365]
	mp := (5*doy + 2) / 153                  // [0, 11]
	dd := doy - (153*mp+2)/5 + 1             // [1, 31]
	var mm int64
	if mp < 10 {
		mm = mp + 3
	} else {
		mm = mp - 9
	}
	if mm <= 2 {
		yy++
	}
	return int(yy), int(mm), int(dd)
}

// toSeconds converts a concrete point to an absolute second count since
// the epoch used by daysFromCivil. Panics if called on Earliest/Latest.
func (c civilPoint) toSeconds() int64 {
	days := daysFromCivil(c.year, c.month, c.day)
	return days*86400 + int64(c.hour)*3600 + int64(c.minute)*60 + int64(c.second)
}

func fromSecondsAbsolute(total int64) civilPoint {
	days := total / 86400
	rem := total % 86400
	if rem < 0 {
		rem += 86400
		days--
	}
	y, m, d := civilFromDays(days)
	return civilPoint{
		year: y, month: m, day: d,
		hour: int(rem / 3600), minute: int(rem % 3600 / 60), second: int(rem % 60),
	}
}

// Add returns dt+duration. Infinity saturates any finite or Earliest
// point to Latest; Latest stays Latest; Earliest plus a finite duration
// stays Earliest (there is no finite origin to advance from).
func (dt DateTime) Add(d Duration) DateTime {
	if d.IsInfinity() {
		return Latest
	}
	switch dt.variant {
	case dtEarliest:
		return Earliest
	case dtLatest:
		return Latest
	default:
		total := dt.point.toSeconds() + d.seconds
		return DateTime{variant: dtPoint, point: fromSecondsAbsolute(total)}
	}
}

// SubDuration returns dt-duration (a DateTime). Panics if d is Infinity
// and dt is a concrete point (undefined), mirroring Duration.Sub's panic policy.
func (dt DateTime) SubDuration(d Duration) DateTime {
	if dt.variant != dtPoint {
		return dt
	}
	if d.IsInfinity() {
		panic("timeutil: cannot subtract Infinity from a concrete DateTime")
	}
	total := dt.point.toSeconds() - d.seconds
	return DateTime{variant: dtPoint, point: fromSecondsAbsolute(total)}
}

// Sub returns dt-other as a Duration. Fails (ErrNegativeDuration) if dt
// precedes other. Earliest-Earliest and Latest-Latest are Zero;
// Latest-anything-else and anything-besides-Earliest minus Earliest are
// Infinity, matching the sentinel algebra of the domain this type is
// drawn from.
func (dt DateTime) Sub(other DateTime) (Duration, error) {
	if dt.Less(other) {
		return Duration{}, fmt.Errorf("%w: %s precedes %s", ErrNegativeDuration, dt, other)
	}
	switch {
	case dt.variant == dtEarliest && other.variant == dtEarliest:
		return Zero, nil
	case dt.variant == dtLatest && other.variant == dtLatest:
		return Zero, nil
	case dt.variant == dtLatest:
		return Infinity, nil
	case other.variant == dtEarliest && dt.variant == dtPoint:
		return Infinity, nil
	default:
		// both Point
		return FromSeconds(dt.point.toSeconds() - other.point.toSeconds()), nil
	}
}

// Less reports dt < other under Earliest < Point(...) < Latest ordering,
// Points compared lexicographically on calendar fields.
func (dt DateTime) Less(other DateTime) bool {
	if dt.variant != other.variant {
		return dt.variant < other.variant
	}
	if dt.variant != dtPoint {
		return false
	}
	a, b := dt.point, other.point
	if a.year != b.year {
		return a.year < b.year
	}
	if a.month != b.month {
		return a.month < b.month
	}
	if a.day != b.day {
		return a.day < b.day
	}
	if a.hour != b.hour {
		return a.hour < b.hour
	}
	if a.minute != b.minute {
		return a.minute < b.minute
	}
	return a.second < b.second
}

// Compare returns -1, 0, +1.
func (dt DateTime) Compare(other DateTime) int {
	if dt == other {
		return 0
	}
	if dt.Less(other) {
		return -1
	}
	return 1
}

// IsEarliest / IsLatest / IsPoint report the variant tag.
func (dt DateTime) IsEarliest() bool { return dt.variant == dtEarliest }
func (dt DateTime) IsLatest() bool   { return dt.variant == dtLatest }
func (dt DateTime) IsPoint() bool    { return dt.variant == dtPoint }

// String renders the ISO-like form, or "Earliest"/"Latest".
func (dt DateTime) String() string {
	switch dt.variant {
	case dtEarliest:
		return "Earliest"
	case dtLatest:
		return "Latest"
	default:
		p := dt.point
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", p.year, p.month, p.day, p.hour, p.minute, p.second)
	}
}
