// /home/krylon/go/src/github.com/blicero/mnemosyne/objects/reminder.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-01 17:40:22 krylon>

package objects

import (
	"strings"
	"time"

	"github.com/blicero/mnemosyne/objects/repeat"
)

//go:generate ffjson reminder.go

// MaxTags is the maximum number of Tags a single Reminder can carry.
const MaxTags = 5

// Reminder is the central entity of the application, something the user
// wants to be notified about at a given time, possibly repeatedly.
//
// StartDate and StartTime are the calendar date and the time of day the
// user picked; they are kept separate because they are edited
// separately, and recombined into RemindTime, the authoritative next
// fire time. SnoozeRemindTime, if set, overrides RemindTime for
// due-checking until the Reminder is stopped or fires again.
//
// The JSON field names are those of the legacy data file.
type Reminder struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Note             string           `json:"note,omitempty"`
	StartDate        time.Time        `json:"startDate"`
	StartTime        time.Time        `json:"startTime"`
	RemindTime       time.Time        `json:"remindTime"`
	DayRepeat        *repeat.Interval `json:"dayRepeat,omitempty"`
	TimeRepeat       *repeat.Interval `json:"timeRepeat,omitempty"`
	SnoozeRemindTime *time.Time       `json:"snoozeRemindTime,omitempty"`
	Stopped          bool             `json:"stopped"`
	Tags             []string         `json:"tags"`
	LastReminded     *time.Time       `json:"lastReminded,omitempty"`
	Changed          time.Time        `json:"changed"`
}

// refTime dereferences the reference timestamp used by the various
// predicates, defaulting to the current time.
func refTime(ref *time.Time) time.Time {
	if ref == nil {
		return time.Now()
	}

	return *ref
} // func refTime(ref *time.Time) time.Time

// isPastStamp compares two timestamps at minute granularity.
// Truncating to the minute keeps second-level jitter from flipping a
// Reminder between due and not-due across consecutive checks.
func isPastStamp(t, now time.Time) bool {
	return !t.Truncate(time.Minute).After(now.Truncate(time.Minute))
} // func isPastStamp(t, now time.Time) bool

// startOfDay returns the beginning of the calendar day t falls on.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
} // func startOfDay(t time.Time) time.Time

// calendarDays returns the number of calendar days from b to a.
// Days shortened or stretched by DST are still one day.
func calendarDays(a, b time.Time) int {
	var delta = startOfDay(a).Sub(startOfDay(b))

	return int((delta + signum(delta)*time.Hour*12) / (time.Hour * 24))
} // func calendarDays(a, b time.Time) int

func signum(d time.Duration) time.Duration {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
} // func signum(d time.Duration) time.Duration

// CombineDateTime composes a timestamp from the calendar fields of date
// and the clock fields of clock.
func CombineDateTime(date, clock time.Time) time.Time {
	return time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		clock.Hour(),
		clock.Minute(),
		0,
		0,
		date.Location())
} // func CombineDateTime(date, clock time.Time) time.Time

// RefreshRemindTime recomputes the RemindTime from StartDate and
// StartTime.
func (r *Reminder) RefreshRemindTime() {
	r.RemindTime = CombineDateTime(r.StartDate, r.StartTime)
} // func (r *Reminder) RefreshRemindTime()

// IsPast returns true if the Reminder's RemindTime has arrived, at
// minute granularity. If ref is non-nil, it is used as the reference
// point, otherwise the current time is.
func (r *Reminder) IsPast(ref *time.Time) bool {
	return isPastStamp(r.RemindTime, refTime(ref))
} // func (r *Reminder) IsPast(ref *time.Time) bool

// IsDue returns true if the Reminder is past and has not been stopped.
func (r *Reminder) IsDue(ref *time.Time) bool {
	return !r.Stopped && r.IsPast(ref)
} // func (r *Reminder) IsDue(ref *time.Time) bool

// ShouldRemind returns true if the Reminder is due and no notification
// has been issued for the current RemindTime yet.
func (r *Reminder) ShouldRemind(ref *time.Time) bool {
	return r.IsDue(ref) &&
		(r.LastReminded == nil || r.LastReminded.Before(r.RemindTime))
} // func (r *Reminder) ShouldRemind(ref *time.Time) bool

// IsSnoozeDue returns true if the Reminder was snoozed and the snooze
// time is strictly in the past.
func (r *Reminder) IsSnoozeDue(ref *time.Time) bool {
	if r.SnoozeRemindTime == nil {
		return false
	}

	return r.SnoozeRemindTime.Truncate(time.Minute).
		Before(refTime(ref).Truncate(time.Minute))
} // func (r *Reminder) IsSnoozeDue(ref *time.Time) bool

// IsRecurring returns true if the Reminder carries any repeat rule.
func (r *Reminder) IsRecurring() bool {
	return r.DayRepeat != nil || r.TimeRepeat != nil
} // func (r *Reminder) IsRecurring() bool

// IsToday returns true if the Reminder's RemindTime falls on the
// current calendar day.
func (r *Reminder) IsToday(ref *time.Time) bool {
	return calendarDays(r.RemindTime, refTime(ref)) == 0
} // func (r *Reminder) IsToday(ref *time.Time) bool

// IsTomorrow returns true if the Reminder's RemindTime falls on the
// next calendar day.
func (r *Reminder) IsTomorrow(ref *time.Time) bool {
	return calendarDays(r.RemindTime, refTime(ref)) == 1
} // func (r *Reminder) IsTomorrow(ref *time.Time) bool

// IsLater returns true if the Reminder's RemindTime is more than one
// calendar day ahead.
func (r *Reminder) IsLater(ref *time.Time) bool {
	return calendarDays(r.RemindTime, refTime(ref)) > 1
} // func (r *Reminder) IsLater(ref *time.Time) bool

// DueTime returns the effective next fire time, i.e. the snooze time if
// one is set, the RemindTime otherwise.
func (r *Reminder) DueTime() time.Time {
	if r.SnoozeRemindTime != nil {
		return *r.SnoozeRemindTime
	}

	return r.RemindTime
} // func (r *Reminder) DueTime() time.Time

// Payload returns the Reminder's Title and Note.
func (r *Reminder) Payload() (string, string) {
	return r.Title, r.Note
} // func (r *Reminder) Payload() (string, string)

// UniqueID returns an identifier that is unique across instances.
func (r *Reminder) UniqueID() string {
	return r.ID
} // func (r *Reminder) UniqueID() string

// IsNewer returns true if the receiver's Changed stamp is more recent
// than the argument's.
func (r *Reminder) IsNewer(other *Reminder) bool {
	return r.Changed.After(other.Changed)
} // func (r *Reminder) IsNewer(other *Reminder) bool

// Clone returns a deep copy of the Reminder.
func (r *Reminder) Clone() *Reminder {
	var c = *r

	if r.DayRepeat != nil {
		var iv = *r.DayRepeat
		c.DayRepeat = &iv
	}

	if r.TimeRepeat != nil {
		var iv = *r.TimeRepeat
		c.TimeRepeat = &iv
	}

	if r.SnoozeRemindTime != nil {
		var t = *r.SnoozeRemindTime
		c.SnoozeRemindTime = &t
	}

	if r.LastReminded != nil {
		var t = *r.LastReminded
		c.LastReminded = &t
	}

	if r.Tags != nil {
		c.Tags = make([]string, len(r.Tags))
		copy(c.Tags, r.Tags)
	}

	return &c
} // func (r *Reminder) Clone() *Reminder

// HasTag returns true if the Reminder carries the given tag.
// Tags are compared case-insensitively.
func (r *Reminder) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}

	return false
} // func (r *Reminder) HasTag(tag string) bool
