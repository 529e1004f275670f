// /home/krylon/go/src/github.com/blicero/mnemosyne/database/02_database_history_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-03 15:31:27 krylon>

package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/objects"
)

const entryCnt = 24

var (
	refStamp = time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
	fired    []*objects.Reminder
	entryIDs []int64
)

func init() {
	fired = make([]*objects.Reminder, entryCnt)

	for i := range fired {
		fired[i] = &objects.Reminder{
			ID:    common.GetUUID(),
			Title: fmt.Sprintf("TEST #%03d", i),
		}
	}
} // func init()

func TestHistoryAdd(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	entryIDs = make([]int64, 0, entryCnt)

	for i, r := range fired {
		var (
			err   error
			id    int64
			stamp = refStamp.Add(time.Hour * time.Duration(i))
		)

		if id, err = db.HistoryAdd(r, stamp); err != nil {
			t.Fatalf("Cannot add history entry for %q: %s",
				r.Title,
				err.Error())
		} else if id == 0 {
			t.Errorf("ID of history entry for %q is 0", r.Title)
		}

		entryIDs = append(entryIDs, id)
	}
} // func TestHistoryAdd(t *testing.T)

func TestHistorySetAction(t *testing.T) {
	if db == nil || len(entryIDs) == 0 {
		t.SkipNow()
	}

	for i, id := range entryIDs {
		var (
			err    error
			action = "snooze"
		)

		if i%2 == 0 {
			action = "stop"
		}

		if err = db.HistorySetAction(id, action); err != nil {
			t.Errorf("Cannot set action on history entry %d: %s",
				id,
				err.Error())
		}
	}
} // func TestHistorySetAction(t *testing.T)

func TestHistoryGetRecent(t *testing.T) {
	if db == nil || len(entryIDs) == 0 {
		t.SkipNow()
	}

	const max = 10

	var (
		err     error
		entries []objects.HistoryEntry
	)

	if entries, err = db.HistoryGetRecent(max); err != nil {
		t.Fatalf("Cannot query recent history: %s",
			err.Error())
	} else if len(entries) != max {
		t.Fatalf("Unexpected number of history entries: %d (expected %d)",
			len(entries),
			max)
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Fired.After(entries[i-1].Fired) {
			t.Errorf("History entries are not sorted: %s fired after %s",
				entries[i].Title,
				entries[i-1].Title)
		}
	}

	// The newest entry belongs to the last Reminder we journaled.
	if entries[0].ReminderID != fired[entryCnt-1].ID {
		t.Errorf("Newest entry belongs to Reminder %s (expected %s)",
			entries[0].ReminderID,
			fired[entryCnt-1].ID)
	}
} // func TestHistoryGetRecent(t *testing.T)

func TestHistoryGetByReminder(t *testing.T) {
	if db == nil || len(entryIDs) == 0 {
		t.SkipNow()
	}

	var (
		err     error
		rem     = fired[3]
		entries []objects.HistoryEntry
	)

	if entries, err = db.HistoryGetByReminder(rem.ID); err != nil {
		t.Fatalf("Cannot query history of Reminder %s: %s",
			rem.ID,
			err.Error())
	} else if len(entries) != 1 {
		t.Fatalf("Unexpected number of entries for Reminder %s: %d (expected 1)",
			rem.ID,
			len(entries))
	} else if entries[0].Title != rem.Title {
		t.Errorf("Entry has the wrong title: %q (expected %q)",
			entries[0].Title,
			rem.Title)
	} else if entries[0].Action == "" {
		t.Error("Entry should carry an action")
	}
} // func TestHistoryGetByReminder(t *testing.T)

func TestHistoryDeleteBefore(t *testing.T) {
	if db == nil || len(entryIDs) == 0 {
		t.SkipNow()
	}

	var (
		err    error
		cnt    int64
		cutoff = refStamp.Add(time.Hour * 12)
	)

	if cnt, err = db.HistoryDeleteBefore(cutoff); err != nil {
		t.Fatalf("Cannot delete old history entries: %s",
			err.Error())
	} else if cnt != 12 {
		t.Errorf("Unexpected number of deleted entries: %d (expected 12)",
			cnt)
	}

	var entries []objects.HistoryEntry

	if entries, err = db.HistoryGetRecent(entryCnt * 2); err != nil {
		t.Fatalf("Cannot query recent history: %s",
			err.Error())
	} else if len(entries) != entryCnt-12 {
		t.Errorf("Unexpected number of surviving entries: %d (expected %d)",
			len(entries),
			entryCnt-12)
	}
} // func TestHistoryDeleteBefore(t *testing.T)
