// /home/krylon/go/src/github.com/blicero/mnemosyne/objects/recur.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-01 18:11:40 krylon>

package objects

import (
	"fmt"
	"time"

	"github.com/blicero/mnemosyne/objects/repeat"
)

// advanceDay advances t by one step of a day-level repeat Interval.
func advanceDay(t time.Time, iv *repeat.Interval) time.Time {
	switch iv.Unit {
	case repeat.Day:
		return t.AddDate(0, 0, iv.Num)
	case repeat.Week:
		return t.AddDate(0, 0, iv.Num*7)
	case repeat.Month:
		return t.AddDate(0, iv.Num, 0)
	case repeat.Year:
		return t.AddDate(iv.Num, 0, 0)
	default:
		panic(fmt.Errorf("Invalid day-level repeat unit %s", iv.Unit))
	}
} // func advanceDay(t time.Time, iv *repeat.Interval) time.Time

// advanceTime advances t by one step of an intraday repeat Interval.
func advanceTime(t time.Time, iv *repeat.Interval) time.Time {
	switch iv.Unit {
	case repeat.Minute:
		return t.Add(time.Minute * time.Duration(iv.Num))
	case repeat.Hour:
		return t.Add(time.Hour * time.Duration(iv.Num))
	default:
		panic(fmt.Errorf("Invalid intraday repeat unit %s", iv.Unit))
	}
} // func advanceTime(t time.Time, iv *repeat.Interval) time.Time

// NextDayOccurrence computes the next time the Reminder's day-level
// repeat rule fires, strictly in the future relative to ref.
//
// The rule is applied repeatedly, so a Reminder that slept through
// several periods (machine suspended, application not running) skips
// all elapsed occurrences. Afterwards the hour and minute of StartTime
// are pinned back onto the result, since date arithmetic across month
// and DST boundaries can shift the clock fields.
func (r *Reminder) NextDayOccurrence(ref *time.Time) (time.Time, bool) {
	if r.DayRepeat == nil {
		return time.Time{}, false
	}

	var (
		now  = refTime(ref)
		next = r.RemindTime
	)

	for {
		next = advanceDay(next, r.DayRepeat)
		if !isPastStamp(next, now) {
			break
		}
	}

	next = time.Date(
		next.Year(),
		next.Month(),
		next.Day(),
		r.StartTime.Hour(),
		r.StartTime.Minute(),
		0,
		0,
		next.Location())

	return next, true
} // func (r *Reminder) NextDayOccurrence(ref *time.Time) (time.Time, bool)

// NextIntradayOccurrence computes the next time the Reminder's intraday
// repeat rule fires, strictly in the future relative to ref.
//
// Intraday recurrence is bounded by the calendar day the Reminder fired
// on: if stepping forward crosses midnight, the rule is exhausted for
// the day and the second return value is false, leaving it to the
// day-level rule (if any) to pick the next occurrence.
func (r *Reminder) NextIntradayOccurrence(ref *time.Time) (time.Time, bool) {
	if r.TimeRepeat == nil {
		return time.Time{}, false
	}

	var (
		now  = refTime(ref)
		next = r.RemindTime
	)

	for {
		next = advanceTime(next, r.TimeRepeat)
		if !isPastStamp(next, now) {
			break
		}
	}

	if calendarDays(next, r.RemindTime) != 0 {
		return time.Time{}, false
	}

	return next, true
} // func (r *Reminder) NextIntradayOccurrence(ref *time.Time) (time.Time, bool)

// NextOccurrence computes the time the Reminder fires next, strictly in
// the future relative to ref.
//
// An intraday rule takes priority as long as it yields a time on the
// same calendar day as the current RemindTime; once it runs out, the
// day-level rule takes over. A Reminder with neither rule is a one-shot
// and has no next occurrence.
func (r *Reminder) NextOccurrence(ref *time.Time) (time.Time, bool) {
	if r.TimeRepeat != nil {
		if next, ok := r.NextIntradayOccurrence(ref); ok {
			return next, true
		}
	}

	if r.DayRepeat != nil {
		return r.NextDayOccurrence(ref)
	}

	return time.Time{}, false
} // func (r *Reminder) NextOccurrence(ref *time.Time) (time.Time, bool)
