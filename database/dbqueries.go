// /home/krylon/go/src/github.com/blicero/mnemosyne/database/dbqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-28 19:21:09 krylon>

package database

import "github.com/blicero/mnemosyne/database/query"

var dbQueries = map[query.ID]string{
	query.HistoryAdd: `
INSERT INTO history (reminder_id, title, fired)
VALUES              (          ?,     ?,     ?)
`,
	query.HistorySetAction: `
UPDATE history
SET action = ?
WHERE id = ?
`,
	query.HistoryGetRecent: `
SELECT
    id,
    reminder_id,
    title,
    fired,
    action
FROM history
ORDER BY fired DESC, id DESC
LIMIT ?
`,
	query.HistoryGetByReminder: `
SELECT
    id,
    title,
    fired,
    action
FROM history
WHERE reminder_id = ?
ORDER BY fired DESC, id DESC
`,
	query.HistoryDeleteBefore: "DELETE FROM history WHERE fired < ?",
}
