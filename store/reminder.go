// /home/krylon/go/src/github.com/blicero/mnemosyne/store/reminder.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 18:47:30 krylon>

package store

import (
	"fmt"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/objects/repeat"
)

// EditPatch describes a partial update to a Reminder. Nil fields are
// left alone; the Clear flags remove the respective repeat rule.
type EditPatch struct {
	Title           *string
	Note            *string
	StartDate       *time.Time
	StartTime       *time.Time
	DayRepeat       *repeat.Interval
	TimeRepeat      *repeat.Interval
	ClearDayRepeat  bool
	ClearTimeRepeat bool
}

func checkRepeat(iv *repeat.Interval, intraday bool) error {
	if iv == nil {
		return nil
	} else if err := iv.Validate(); err != nil {
		return err
	} else if iv.Unit.Intraday() != intraday {
		if intraday {
			return fmt.Errorf("timeRepeat needs an intraday unit, not %s",
				iv.Unit)
		}
		return fmt.Errorf("dayRepeat needs a day-level unit, not %s",
			iv.Unit)
	}

	return nil
} // func checkRepeat(iv *repeat.Interval, intraday bool) error

// Create adds a new Reminder built from the given template and returns
// its ID. Title, Note, StartDate, StartTime, the repeat rules and Tags
// are taken from the template; everything else is computed.
//
// A Reminder whose composed RemindTime is already past is born stopped,
// and if it recurs, the next live occurrence is seeded right away so
// the user does not have to skip an already-elapsed instance manually.
func (s *Store) Create(tmpl *objects.Reminder) (string, error) {
	var err error

	if tmpl.Title == "" {
		return "", ErrNoTitle
	} else if err = checkRepeat(tmpl.DayRepeat, false); err != nil {
		return "", err
	} else if err = checkRepeat(tmpl.TimeRepeat, true); err != nil {
		return "", err
	}

	var (
		now    = s.now()
		rem    = tmpl.Clone()
		succID string
	)

	rem.ID = common.GetUUID()
	rem.Changed = now
	rem.SnoozeRemindTime = nil
	rem.LastReminded = nil
	rem.RefreshRemindTime()

	var tags = rem.Tags
	rem.Tags = nil

	s.lock.Lock()

	s.ids = append(s.ids, rem.ID)
	s.reminders[rem.ID] = rem

	for _, tag := range tags {
		if err = s.putTag(rem, tag); err != nil {
			s.log.Printf("[WARN] Cannot tag new Reminder %q with %q: %s\n",
				rem.Title,
				tag,
				err.Error())
		}
	}

	if s.prefs.SelectedTag != "" {
		s.putTag(rem, s.prefs.SelectedTag) // nolint: errcheck
	}

	rem.Stopped = rem.IsPast(&now)

	if rem.Stopped && rem.IsRecurring() {
		succID = s.makeSuccessor(rem, now)
	}

	s.lock.Unlock()

	s.log.Printf("[DEBUG] Created Reminder %s (%q), due %s\n",
		rem.ID,
		rem.Title,
		rem.RemindTime.Format(common.TimestampFormat))

	s.publish(EvCreated, rem.ID)
	if succID != "" {
		s.publish(EvCreated, succID)
	}
	s.markDirty()

	return rem.ID, nil
} // func (s *Store) Create(tmpl *objects.Reminder) (string, error)

// spawnSuccessor inserts a copy of r that fires at next.
// Caller must hold the write lock.
func (s *Store) spawnSuccessor(r *objects.Reminder, next, now time.Time) string {
	var succ = r.Clone()

	succ.ID = common.GetUUID()
	succ.RemindTime = next
	succ.Stopped = false
	succ.SnoozeRemindTime = nil
	succ.LastReminded = nil
	succ.Changed = now

	var tags = succ.Tags
	succ.Tags = nil

	s.ids = append(s.ids, succ.ID)
	s.reminders[succ.ID] = succ

	for _, tag := range tags {
		s.putTag(succ, tag) // nolint: errcheck
	}

	return succ.ID
} // func (s *Store) spawnSuccessor(r *objects.Reminder, next, now time.Time) string

// makeSuccessor computes r's next occurrence and spawns the successor,
// returning its ID, or "" for a one-shot Reminder.
// Caller must hold the write lock.
func (s *Store) makeSuccessor(r *objects.Reminder, now time.Time) string {
	var next, ok = r.NextOccurrence(&now)

	if !ok {
		return ""
	}

	return s.spawnSuccessor(r, next, now)
} // func (s *Store) makeSuccessor(r *objects.Reminder, now time.Time) string

// Recur spawns the successor of the given Reminder per its repeat
// rules and returns the successor's ID. A one-shot Reminder yields ""
// without an error.
func (s *Store) Recur(id string) (string, error) {
	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return "", ErrNotFound
	}

	var succID = s.makeSuccessor(r, now)

	s.lock.Unlock()

	if succID != "" {
		s.publish(EvCreated, succID)
		s.markDirty()
	}

	return succID, nil
} // func (s *Store) Recur(id string) (string, error)

// Edit applies a partial update. If the date or the time of day
// changed, the RemindTime is recombined from the updated values.
func (s *Store) Edit(id string, patch *EditPatch) error {
	var err error

	if patch.Title != nil && *patch.Title == "" {
		return ErrNoTitle
	} else if err = checkRepeat(patch.DayRepeat, false); err != nil {
		return err
	} else if err = checkRepeat(patch.TimeRepeat, true); err != nil {
		return err
	}

	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	if patch.Title != nil {
		r.Title = *patch.Title
	}

	if patch.Note != nil {
		r.Note = *patch.Note
	}

	var stampChanged bool

	if patch.StartDate != nil {
		r.StartDate = *patch.StartDate
		stampChanged = true
	}

	if patch.StartTime != nil {
		r.StartTime = *patch.StartTime
		stampChanged = true
	}

	if patch.DayRepeat != nil {
		var iv = *patch.DayRepeat
		r.DayRepeat = &iv
	} else if patch.ClearDayRepeat {
		r.DayRepeat = nil
	}

	if patch.TimeRepeat != nil {
		var iv = *patch.TimeRepeat
		r.TimeRepeat = &iv
	} else if patch.ClearTimeRepeat {
		r.TimeRepeat = nil
	}

	if stampChanged {
		r.RefreshRemindTime()
	}

	r.Changed = now

	s.lock.Unlock()

	s.publish(EvUpdated, id)
	s.markDirty()

	return nil
} // func (s *Store) Edit(id string, patch *EditPatch) error

// Delete removes a Reminder. The tag index is left alone unless
// PruneTags is enabled in the settings.
func (s *Store) Delete(id string) error {
	s.lock.Lock()

	if _, ok := s.reminders[id]; !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	delete(s.reminders, id)

	var ids = make([]string, 0, len(s.ids)-1)

	for _, i := range s.ids {
		if i != id {
			ids = append(ids, i)
		}
	}

	s.ids = ids

	if s.settings.PruneTags {
		s.pruneTagIndex(id)
	}

	s.lock.Unlock()

	s.publish(EvDeleted, id)
	s.markDirty()

	return nil
} // func (s *Store) Delete(id string) error

// Stop deactivates a Reminder. A stopped Reminder takes no further part
// in due-checking, so its snooze time is cleared as well.
func (s *Store) Stop(id string) error {
	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	r.Stopped = true
	r.SnoozeRemindTime = nil
	r.Changed = now

	s.lock.Unlock()

	s.publish(EvStopped, id)
	s.markDirty()

	return nil
} // func (s *Store) Stop(id string) error

// Continue reactivates a stopped Reminder. If its RemindTime is still
// in the past, it is snoozed a few minutes out, so it does not fire
// again while the user is still looking at it.
func (s *Store) Continue(id string) error {
	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	r.Stopped = false

	if r.IsPast(&now) {
		var until = now.Add(common.SnoozeDelay)
		r.SnoozeRemindTime = &until
	}

	r.Changed = now

	s.lock.Unlock()

	s.publish(EvUpdated, id)
	s.markDirty()

	return nil
} // func (s *Store) Continue(id string) error

// Snooze defers the Reminder until the given time.
func (s *Store) Snooze(id string, until time.Time) error {
	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	r.SnoozeRemindTime = &until
	r.Changed = now

	s.lock.Unlock()

	s.publish(EvUpdated, id)
	s.markDirty()

	return nil
} // func (s *Store) Snooze(id string, until time.Time) error

// MarkReminded records that a notification was issued for the
// Reminder's current RemindTime.
func (s *Store) MarkReminded(id string, stamp time.Time) error {
	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	r.LastReminded = &stamp

	s.lock.Unlock()
	s.markDirty()

	return nil
} // func (s *Store) MarkReminded(id string, stamp time.Time) error

// FastForward stops the Reminder and spawns its successor at the next
// day-level occurrence (toNextDay) or the next intraday occurrence,
// falling back to the day rule if the intraday rule is exhausted.
// Returns the successor's ID.
func (s *Store) FastForward(id string, toNextDay bool) (string, error) {
	var now = s.now()

	s.lock.Lock()

	var r, found = s.reminders[id]

	if !found {
		s.lock.Unlock()
		return "", ErrNotFound
	}

	var (
		next time.Time
		ok   bool
	)

	if toNextDay {
		next, ok = r.NextDayOccurrence(&now)
	} else if next, ok = r.NextIntradayOccurrence(&now); !ok {
		next, ok = r.NextDayOccurrence(&now)
	}

	if !ok {
		s.lock.Unlock()
		return "", ErrNotRecurring
	}

	r.Stopped = true
	r.SnoozeRemindTime = nil
	r.Changed = now

	var succID = s.spawnSuccessor(r, next, now)

	s.lock.Unlock()

	s.publish(EvStopped, id)
	s.publish(EvCreated, succID)
	s.markDirty()

	return succID, nil
} // func (s *Store) FastForward(id string, toNextDay bool) (string, error)
