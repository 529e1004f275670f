// /home/krylon/go/src/github.com/blicero/mnemosyne/store/01_store_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 15. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 20:28:34 krylon>

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/docstore"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/objects/repeat"
)

var (
	st     *Store
	events <-chan Event

	// All tests run against this frozen clock.
	testNow = time.Date(2023, 5, 15, 12, 0, 0, 0, time.UTC)
)

func init() {
	var baseDir = time.Now().Format("/tmp/mnemosyne_store_test_20060102_150405")

	if err := common.SetBaseDir(baseDir); err != nil {
		panic(err)
	}
} // func init()

func drainEvents() []Event {
	var list []Event

	for {
		select {
		case ev := <-events:
			list = append(list, ev)
		default:
			return list
		}
	}
} // func drainEvents() []Event

func TestStoreOpen(t *testing.T) {
	var (
		err error
		doc *docstore.Store
	)

	if doc, err = docstore.New(""); err != nil {
		t.Fatalf("Cannot create docstore: %s",
			err.Error())
	} else if st, err = Open(doc); err != nil {
		st = nil
		t.Fatalf("Cannot open Store: %s",
			err.Error())
	}

	st.SetClock(func() time.Time { return testNow })
	events = st.Subscribe()
} // func TestStoreOpen(t *testing.T)

func TestCreate(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err  error
		id   string
		rem  *objects.Reminder
		tmpl = objects.Reminder{
			Title:     "Water the plants",
			StartDate: time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC),
			StartTime: time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC),
		}
	)

	if id, err = st.Create(&tmpl); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	} else if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up freshly created Reminder: %s",
			err.Error())
	}

	var expected = time.Date(2023, 5, 20, 9, 0, 0, 0, time.UTC)

	if !rem.RemindTime.Equal(expected) {
		t.Errorf("Unexpected RemindTime: expected %s, got %s",
			expected.Format(common.TimestampFormat),
			rem.RemindTime.Format(common.TimestampFormat))
	}

	if rem.Stopped {
		t.Error("A Reminder created in the future must not be born stopped")
	}

	var evs = drainEvents()

	if len(evs) != 1 || evs[0].Type != EvCreated || evs[0].ID != id {
		t.Errorf("Expected a single EvCreated event for %s, got %v",
			id,
			evs)
	}

	if _, err = st.Create(&objects.Reminder{}); !errors.Is(err, ErrNoTitle) {
		t.Error("Creating a Reminder without a title should fail")
	}
} // func TestCreate(t *testing.T)

func TestCreateBornPast(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err  error
		id   string
		tmpl = objects.Reminder{
			Title:     "Feed the cat",
			StartDate: time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC),
			StartTime: time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC),
			DayRepeat: &repeat.Interval{Num: 1, Unit: repeat.Day},
			Tags:      []string{"Pets"},
		}
	)

	drainEvents()

	if id, err = st.Create(&tmpl); err != nil {
		t.Fatalf("Cannot create backdated Reminder: %s",
			err.Error())
	}

	var rem *objects.Reminder

	if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up Reminder %s: %s",
			id,
			err.Error())
	} else if !rem.Stopped {
		t.Error("A backdated Reminder must be born stopped")
	}

	// The successor must have been seeded immediately, carrying the
	// tag, due at the first occurrence after the frozen clock.
	var (
		tagged   = st.RemindersForTag("pets")
		expected = time.Date(2023, 5, 16, 9, 0, 0, 0, time.UTC)
		found    bool
	)

	if len(tagged) != 2 {
		t.Fatalf("Expected 2 Reminders tagged Pets, got %d",
			len(tagged))
	}

	for _, r := range tagged {
		if r.ID != id {
			found = true

			if r.Stopped {
				t.Error("The seeded successor must not be stopped")
			}

			if !r.RemindTime.Equal(expected) {
				t.Errorf("Unexpected successor RemindTime: expected %s, got %s",
					expected.Format(common.TimestampFormat),
					r.RemindTime.Format(common.TimestampFormat))
			}
		}
	}

	if !found {
		t.Error("No successor was seeded for the backdated recurring Reminder")
	}
} // func TestCreateBornPast(t *testing.T)

func TestEdit(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err  error
		id   string
		rem  *objects.Reminder
		tmpl = objects.Reminder{
			Title:     "Dentist",
			StartDate: time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC),
			StartTime: time.Date(1970, 1, 1, 14, 0, 0, 0, time.UTC),
		}
	)

	if id, err = st.Create(&tmpl); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	}

	var newClock = time.Date(1970, 1, 1, 16, 45, 0, 0, time.UTC)

	if err = st.Edit(id, &EditPatch{StartTime: &newClock}); err != nil {
		t.Fatalf("Cannot edit Reminder: %s",
			err.Error())
	} else if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up Reminder: %s",
			err.Error())
	}

	var expected = time.Date(2023, 6, 6, 16, 45, 0, 0, time.UTC)

	if !rem.RemindTime.Equal(expected) {
		t.Errorf("RemindTime was not recombined: expected %s, got %s",
			expected.Format(common.TimestampFormat),
			rem.RemindTime.Format(common.TimestampFormat))
	}

	if err = st.Edit("no-such-id", &EditPatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Editing a non-existing Reminder should yield ErrNotFound, got %v",
			err)
	}
} // func TestEdit(t *testing.T)

func TestStopContinue(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err  error
		id   string
		rem  *objects.Reminder
		tmpl = objects.Reminder{
			Title:     "Overdue chores",
			StartDate: time.Date(2023, 5, 14, 0, 0, 0, 0, time.UTC),
			StartTime: time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC),
		}
	)

	// Born in the past, so born stopped.
	if id, err = st.Create(&tmpl); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	}

	if err = st.Continue(id); err != nil {
		t.Fatalf("Cannot continue Reminder: %s",
			err.Error())
	} else if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up Reminder: %s",
			err.Error())
	}

	if rem.Stopped {
		t.Error("Reminder should be active after Continue")
	} else if rem.SnoozeRemindTime == nil {
		t.Error("Continuing a past Reminder should set a snooze time")
	} else if !rem.SnoozeRemindTime.Equal(testNow.Add(common.SnoozeDelay)) {
		t.Errorf("Unexpected snooze time: expected %s, got %s",
			testNow.Add(common.SnoozeDelay).Format(common.TimestampFormat),
			rem.SnoozeRemindTime.Format(common.TimestampFormat))
	}

	if err = st.Stop(id); err != nil {
		t.Fatalf("Cannot stop Reminder: %s",
			err.Error())
	} else if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up Reminder: %s",
			err.Error())
	}

	if !rem.Stopped {
		t.Error("Reminder should be stopped after Stop")
	} else if rem.SnoozeRemindTime != nil {
		t.Error("Stopping a Reminder must clear its snooze time")
	}
} // func TestStopContinue(t *testing.T)

func TestTags(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err  error
		id   string
		rem  *objects.Reminder
		tmpl = objects.Reminder{
			Title:     "Weekly report",
			StartDate: time.Date(2023, 5, 19, 0, 0, 0, 0, time.UTC),
			StartTime: time.Date(1970, 1, 1, 11, 0, 0, 0, time.UTC),
		}
	)

	if id, err = st.Create(&tmpl); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	}

	if err = st.AddTag(id, "Work"); err != nil {
		t.Fatalf("Cannot add tag: %s",
			err.Error())
	} else if err = st.AddTag(id, "work"); err != nil {
		t.Fatalf("Re-adding a tag (case-insensitively) should be a silent no-op: %s",
			err.Error())
	} else if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up Reminder: %s",
			err.Error())
	}

	if len(rem.Tags) != 1 {
		t.Errorf("Expected exactly 1 tag on the Reminder, got %d (%v)",
			len(rem.Tags),
			rem.Tags)
	} else if rem.Tags[0] != "Work" {
		t.Errorf("Tag should keep its original spelling, got %q",
			rem.Tags[0])
	}

	var index = st.Tags()

	if len(index["Work"]) != 1 || index["Work"][0] != id {
		t.Errorf("Expected exactly one index entry for Work, got %v",
			index["Work"])
	}

	for _, tag := range []string{"a", "b", "c", "d"} {
		if err = st.AddTag(id, tag); err != nil {
			t.Fatalf("Cannot add tag %q: %s",
				tag,
				err.Error())
		}
	}

	if err = st.AddTag(id, "one-too-many"); !errors.Is(err, ErrTagLimit) {
		t.Errorf("Adding a sixth tag should fail with ErrTagLimit, got %v",
			err)
	}

	if err = st.RemoveTag(id, "WORK"); err != nil {
		t.Fatalf("Cannot remove tag: %s",
			err.Error())
	} else if rem, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up Reminder: %s",
			err.Error())
	} else if rem.HasTag("work") {
		t.Error("Tag Work should be gone from the Reminder")
	}
} // func TestTags(t *testing.T)

func TestDeleteKeepsTagIndex(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err      error
		id1, id2 string
		date     = time.Date(2023, 5, 21, 0, 0, 0, 0, time.UTC)
		clock    = time.Date(1970, 1, 1, 10, 0, 0, 0, time.UTC)
	)

	if id1, err = st.Create(&objects.Reminder{
		Title:     "Standup",
		StartDate: date,
		StartTime: clock,
		Tags:      []string{"Meetings"},
	}); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	}

	if id2, err = st.Create(&objects.Reminder{
		Title:     "Retro",
		StartDate: date,
		StartTime: clock,
		Tags:      []string{"Meetings"},
	}); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	}

	if err = st.Delete(id1); err != nil {
		t.Fatalf("Cannot delete Reminder: %s",
			err.Error())
	}

	var rem *objects.Reminder

	if rem, err = st.Get(id2); err != nil {
		t.Fatalf("Cannot look up surviving Reminder: %s",
			err.Error())
	} else if !rem.HasTag("Meetings") {
		t.Error("Deleting one Reminder must not strip tags off another")
	}

	var (
		index = st.Tags()
		found bool
	)

	for _, rid := range index["Meetings"] {
		if rid == id2 {
			found = true
			break
		}
	}

	if !found {
		t.Error("The surviving Reminder's index entry is gone")
	}

	if err = st.Delete(id1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deleting a deleted Reminder should yield ErrNotFound, got %v",
			err)
	}
} // func TestDeleteKeepsTagIndex(t *testing.T)

func TestFastForward(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err        error
		id, succID string
		tmpl       = objects.Reminder{
			Title:     "Backup",
			StartDate: time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC),
			StartTime: time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC),
			DayRepeat: &repeat.Interval{Num: 1, Unit: repeat.Day},
		}
	)

	if id, err = st.Create(&tmpl); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	}

	if succID, err = st.FastForward(id, true); err != nil {
		t.Fatalf("Cannot fast-forward Reminder: %s",
			err.Error())
	}

	var orig, succ *objects.Reminder

	if orig, err = st.Get(id); err != nil {
		t.Fatalf("Cannot look up original: %s",
			err.Error())
	} else if succ, err = st.Get(succID); err != nil {
		t.Fatalf("Cannot look up successor: %s",
			err.Error())
	}

	if !orig.Stopped {
		t.Error("Fast-forward must stop the original Reminder")
	}

	var expected = time.Date(2023, 5, 21, 9, 0, 0, 0, time.UTC)

	if !succ.RemindTime.Equal(expected) {
		t.Errorf("Unexpected successor RemindTime: expected %s, got %s",
			expected.Format(common.TimestampFormat),
			succ.RemindTime.Format(common.TimestampFormat))
	}

	// One-shot Reminders cannot be fast-forwarded.
	var oneShot = objects.Reminder{
		Title:     "One-off",
		StartDate: time.Date(2023, 5, 22, 0, 0, 0, 0, time.UTC),
		StartTime: time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	if id, err = st.Create(&oneShot); err != nil {
		t.Fatalf("Cannot create Reminder: %s",
			err.Error())
	} else if _, err = st.FastForward(id, true); !errors.Is(err, ErrNotRecurring) {
		t.Errorf("Fast-forwarding a one-shot should yield ErrNotRecurring, got %v",
			err)
	}
} // func TestFastForward(t *testing.T)

func TestPersistRoundTrip(t *testing.T) {
	if st == nil {
		t.SkipNow()
	}

	var (
		err error
		cnt = st.Count()
	)

	if err = st.SaveNow(); err != nil {
		t.Fatalf("Cannot save state: %s",
			err.Error())
	}

	var (
		doc    *docstore.Store
		reborn *Store
	)

	if doc, err = docstore.New(""); err != nil {
		t.Fatalf("Cannot create docstore: %s",
			err.Error())
	} else if reborn, err = Open(doc); err != nil {
		t.Fatalf("Cannot re-open Store from data file: %s",
			err.Error())
	}

	defer reborn.Close() // nolint: errcheck

	if reborn.Count() != cnt {
		t.Errorf("Re-opened Store has %d Reminders, expected %d",
			reborn.Count(),
			cnt)
	}
} // func TestPersistRoundTrip(t *testing.T)
