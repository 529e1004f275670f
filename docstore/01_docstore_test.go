// /home/krylon/go/src/github.com/blicero/mnemosyne/docstore/01_docstore_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-01 21:36:48 krylon>

package docstore

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/objects/repeat"
)

var store *Store

func init() {
	var baseDir = time.Now().Format("/tmp/mnemosyne_docstore_test_20060102_150405")

	if err := common.SetBaseDir(baseDir); err != nil {
		panic(err)
	}
} // func init()

func TestStoreNew(t *testing.T) {
	var err error

	if store, err = New(""); err != nil {
		store = nil
		t.Fatalf("Cannot create docstore: %s",
			err.Error())
	}
} // func TestStoreNew(t *testing.T)

func TestLoadMissing(t *testing.T) {
	if store == nil {
		t.SkipNow()
	}

	var (
		err error
		doc *Document
	)

	if doc, err = store.Load(); err != nil {
		t.Errorf("Loading a non-existing data file should not fail: %s",
			err.Error())
	} else if doc != nil {
		t.Error("Loading a non-existing data file should yield a nil Document")
	}
} // func TestLoadMissing(t *testing.T)

func TestRoundTrip(t *testing.T) {
	if store == nil {
		t.SkipNow()
	}

	var (
		err      error
		loaded   *Document
		snooze   = time.Date(2023, 5, 14, 10, 5, 0, 0, time.UTC)
		reminded = time.Date(2023, 5, 14, 10, 0, 0, 0, time.UTC)
		id       = common.GetUUID()
		settings = objects.DefaultSettings()
		rem      = &objects.Reminder{
			ID:               id,
			Title:            "Water the plants",
			Note:             "The ficus, too",
			StartDate:        time.Date(2023, 5, 14, 0, 0, 0, 0, time.UTC),
			StartTime:        time.Date(1970, 1, 1, 10, 0, 0, 0, time.UTC),
			RemindTime:       time.Date(2023, 5, 14, 10, 0, 0, 0, time.UTC),
			DayRepeat:        &repeat.Interval{Num: 2, Unit: repeat.Day},
			SnoozeRemindTime: &snooze,
			LastReminded:     &reminded,
			Tags:             []string{"Home"},
			Changed:          time.Date(2023, 5, 14, 9, 59, 0, 0, time.UTC),
		}
		doc = &Document{
			ReminderIDs:  []string{id},
			AllReminders: map[string]*objects.Reminder{id: rem},
			AllTags:      map[string][]string{"Home": []string{id}},
			TagNames:     []string{"Home"},
			AppSettings:  &settings,
		}
	)

	if err = store.Save(doc); err != nil {
		t.Fatalf("Cannot save Document: %s",
			err.Error())
	} else if loaded, err = store.Load(); err != nil {
		t.Fatalf("Cannot load Document: %s",
			err.Error())
	} else if loaded == nil {
		t.Fatal("Loaded Document is nil")
	} else if len(loaded.ReminderIDs) != 1 {
		t.Fatalf("Unexpected number of Reminder IDs: %d (expected 1)",
			len(loaded.ReminderIDs))
	}

	var lrem = loaded.AllReminders[id]

	if lrem == nil {
		t.Fatalf("Reminder %s is missing from loaded Document",
			id)
	}

	type stampPair struct {
		name     string
		expected time.Time
		got      time.Time
	}

	var stamps = []stampPair{
		stampPair{"startDate", rem.StartDate, lrem.StartDate},
		stampPair{"startTime", rem.StartTime, lrem.StartTime},
		stampPair{"remindTime", rem.RemindTime, lrem.RemindTime},
		stampPair{"snoozeRemindTime", *rem.SnoozeRemindTime, *lrem.SnoozeRemindTime},
		stampPair{"lastReminded", *rem.LastReminded, *lrem.LastReminded},
	}

	for _, s := range stamps {
		if !common.TimeEqualMinute(s.expected, s.got) {
			t.Errorf("Field %s did not survive the round trip: expected %s, got %s",
				s.name,
				s.expected.Format(common.TimestampFormat),
				s.got.Format(common.TimestampFormat))
		}
	}

	if lrem.DayRepeat == nil {
		t.Error("DayRepeat did not survive the round trip")
	} else if lrem.DayRepeat.Num != 2 || lrem.DayRepeat.Unit != repeat.Day {
		t.Errorf("Unexpected DayRepeat: %s",
			lrem.DayRepeat)
	}

	if loaded.AppSettings == nil || !loaded.AppSettings.RunAtStartup {
		t.Error("AppSettings did not survive the round trip")
	}
} // func TestRoundTrip(t *testing.T)

func TestLoadMalformed(t *testing.T) {
	if store == nil {
		t.SkipNow()
	}

	var err error

	if err = os.WriteFile(store.Path(), []byte("This is not JSON{{{"), 0644); err != nil {
		t.Fatalf("Cannot write garbage data file: %s",
			err.Error())
	}

	if _, err = store.Load(); err == nil {
		t.Error("Loading a garbage data file should fail")
	} else if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got: %s",
			err.Error())
	}
} // func TestLoadMalformed(t *testing.T)
