// Package notify maps cadence results to reminder emails.
package notify

import (
	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/model"
)

// Threshold is one row of the reminder table.
type Threshold struct {
	// Key identifies the threshold in delivery records.
	Key string
	// DaysLeft is the DaysUntilNextPost value the threshold fires on.
	DaysLeft int
	pref     pref
	subject  string
	body     string
}

type pref int

const (
	prefOneDay pref = iota
	prefThreeDay
	prefFiveDay
	prefTenDay
	prefThirtyDay
)

var (
	LastDay = Threshold{
		Key:      "one_day",
		DaysLeft: 0,
		pref:     prefOneDay,
		subject:  "Musehabit - Today is your day to post",
		body: `Hi {{.Name}},

Your posting window on Musehabit is open. Today is the last day of your current cycle, so now is the time to share what you've been working on.

We can't wait to see what you create!`,
	}
	ThreeDay = Threshold{
		Key:      "three_day",
		DaysLeft: 3,
		pref:     prefThreeDay,
		subject:  "Musehabit - 3 days left",
		body: `Hi {{.Name}},

Your next Musehabit window opens in **{{.DaysLeft}} days**. Time to start putting the finishing touches on your next piece.`,
	}
	FiveDay = Threshold{
		Key:      "five_day",
		DaysLeft: 5,
		pref:     prefFiveDay,
		subject:  "Musehabit - 5 days left",
		body: `Hi {{.Name}},

Your next Musehabit window opens in **{{.DaysLeft}} days**. How is your next piece coming along?`,
	}
	TenDay = Threshold{
		Key:      "ten_day",
		DaysLeft: 10,
		pref:     prefTenDay,
		subject:  "Musehabit - 10 days left",
		body: `Hi {{.Name}},

Your next Musehabit window opens in **{{.DaysLeft}} days**. A friendly nudge to keep your practice going.`,
	}
	Reset = Threshold{
		Key:      "thirty_day",
		DaysLeft: cadence.CycleDays,
		pref:     prefThirtyDay,
		subject:  "Musehabit - You can post again!",
		body: `Hi {{.Name}},

This is a friendly reminder that today your window to post on Musehabit in the next 30 days has reset. We can't wait to see what you create!`,
	}
)

// Table lists the thresholds in priority order.
var Table = []Threshold{LastDay, ThreeDay, FiveDay, TenDay, Reset}

// Lookup returns the threshold the result falls on, ignoring preferences.
func Lookup(res cadence.Result) (Threshold, bool) {
	for _, t := range Table {
		if t.matches(res) {
			return t, true
		}
	}
	return Threshold{}, false
}

// Match returns the threshold to notify for, if the result falls on one and
// the artist has it enabled.
func Match(res cadence.Result, prefs model.NotificationPrefs) (Threshold, bool) {
	t, ok := Lookup(res)
	if !ok || !t.Enabled(prefs) {
		return Threshold{}, false
	}
	return t, true
}

// Enabled reports whether the artist opted into this threshold.
func (t Threshold) Enabled(prefs model.NotificationPrefs) bool {
	switch t.pref {
	case prefOneDay:
		return prefs.OneDay
	case prefThreeDay:
		return prefs.ThreeDay
	case prefFiveDay:
		return prefs.FiveDay
	case prefTenDay:
		return prefs.TenDay
	case prefThirtyDay:
		return prefs.ThirtyDay
	}
	return false
}

func (t Threshold) matches(res cadence.Result) bool {
	if t.pref == prefOneDay {
		return res.DaysUntilNextPost == 0 && res.CanPost
	}
	return res.DaysUntilNextPost == t.DaysLeft
}
