package ranking

import "time"

// Context carries the request's notion of "now" and the user's timezone.
// Every time-dependent score reads from here instead of the process clock so
// rankings stay reproducible.
type Context struct {
	Now time.Time
	Loc *time.Location
}

func NewContext(now time.Time, loc *time.Location) Context {
	if loc == nil {
		loc = time.UTC
	}
	return Context{Now: now, Loc: loc}
}

func (c Context) LocalNow() time.Time {
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return c.Now.In(loc)
}

type DayPart string

const (
	DayPartMorning   DayPart = "morning"   // 05:00-10:59
	DayPartAfternoon DayPart = "afternoon" // 11:00-16:59
	DayPartEvening   DayPart = "evening"   // 17:00-21:59
	DayPartNight     DayPart = "night"     // 22:00-04:59
)

func DayPartOf(t time.Time) DayPart {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return DayPartMorning
	case h >= 11 && h < 17:
		return DayPartAfternoon
	case h >= 17 && h < 22:
		return DayPartEvening
	default:
		return DayPartNight
	}
}

type Season string

const (
	SeasonSpring Season = "spring" // Mar-May
	SeasonSummer Season = "summer" // Jun-Aug
	SeasonAutumn Season = "autumn" // Sep-Nov
	SeasonWinter Season = "winter" // Dec-Feb
)

func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}
