// /home/krylon/go/src/github.com/blicero/mnemosyne/database/initqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-04-17 22:03:18 krylon>

package database

var initQueries = []string{
	`
CREATE TABLE history (
    id          INTEGER PRIMARY KEY,
    reminder_id TEXT NOT NULL,
    title       TEXT NOT NULL,
    fired       INTEGER NOT NULL,
    action      TEXT NOT NULL DEFAULT '',
    CHECK (action IN ('', 'snooze', 'stop'))
)
`,
	"CREATE INDEX history_rem_idx ON history (reminder_id)",
	"CREATE INDEX history_fired_idx ON history (fired)",
}
