// /home/krylon/go/src/github.com/blicero/mnemosyne/objects/history.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 05. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-11 19:27:40 krylon>

package objects

import "time"

//go:generate ffjson history.go

// HistoryEntry records one notification that was actually presented to
// the user: which Reminder fired, when, and how the user answered.
// Past firings live in the history journal rather than the data file,
// so the live document does not grow with every recurrence.
type HistoryEntry struct {
	ID         int64
	ReminderID string
	Title      string
	Fired      time.Time
	Action     string
}
