// Package patterns holds the statistical tables that make generated audit
// activity look like a real hospital: hour-of-day and weekday weights,
// clinical workflow step sequences and anomaly rates.
package patterns

import (
	"math/rand"
	"time"
)

// defaultWeight is used for hours/weekdays missing from the tables.
const defaultWeight = 10

// TimePatterns answers "how busy is the hospital right now" from two
// independent weight tables.
type TimePatterns struct {
	HourWeights    map[int]int
	WeekdayWeights map[time.Weekday]int
}

// DefaultTimePatterns returns the stock activity profile: morning and
// mid-afternoon peaks, quiet nights, near-dead weekends.
func DefaultTimePatterns() *TimePatterns {
	return &TimePatterns{
		HourWeights: map[int]int{
			0: 1, 1: 1, 2: 1, 3: 1, 4: 2, 5: 3,
			6: 5, 7: 8, 8: 15, 9: 20, 10: 25, 11: 22,
			12: 10, 13: 8, 14: 15, 15: 25, 16: 30, 17: 15,
			18: 10, 19: 8, 20: 5, 21: 3, 22: 2, 23: 1,
		},
		WeekdayWeights: map[time.Weekday]int{
			time.Monday:    20,
			time.Tuesday:   22,
			time.Wednesday: 20,
			time.Thursday:  18,
			time.Friday:    15,
			time.Saturday:  3,
			time.Sunday:    2,
		},
	}
}

// ActivityWeight combines the hour and weekday weights as their mean.
func (p *TimePatterns) ActivityWeight(hour int, weekday time.Weekday) float64 {
	hw, ok := p.HourWeights[hour]
	if !ok {
		hw = defaultWeight
	}
	ww, ok := p.WeekdayWeights[weekday]
	if !ok {
		ww = defaultWeight
	}
	return float64(hw+ww) / 2
}

// ShouldFireNow is a Bernoulli trial whose success probability tracks how
// "peak" the given moment is: a uniform draw in [1,100] against the
// combined weight.
func (p *TimePatterns) ShouldFireNow(rng *rand.Rand, hour int, weekday time.Weekday) bool {
	return float64(rng.Intn(100)+1) <= p.ActivityWeight(hour, weekday)
}

// RealisticTimestamp keeps base's date but re-rolls the time of day: the
// hour is drawn from the hour-weight table, minute and second uniformly.
// Historical backfill uses this so a day's events cluster around the
// configured peaks instead of spreading uniformly.
func (p *TimePatterns) RealisticTimestamp(rng *rand.Rand, base time.Time) time.Time {
	hour := p.weightedHour(rng)
	return time.Date(
		base.Year(), base.Month(), base.Day(),
		hour, rng.Intn(60), rng.Intn(60), 0,
		base.Location(),
	)
}

func (p *TimePatterns) weightedHour(rng *rand.Rand) int {
	total := 0
	for h := 0; h < 24; h++ {
		if w, ok := p.HourWeights[h]; ok {
			total += w
		}
	}
	if total == 0 {
		return rng.Intn(24)
	}
	pick := rng.Intn(total)
	for h := 0; h < 24; h++ {
		w, ok := p.HourWeights[h]
		if !ok {
			continue
		}
		if pick < w {
			return h
		}
		pick -= w
	}
	return 23
}
