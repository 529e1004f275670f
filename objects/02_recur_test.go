// /home/krylon/go/src/github.com/blicero/mnemosyne/objects/02_recur_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-01 19:05:23 krylon>

package objects

import (
	"testing"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/objects/repeat"
)

func TestNextDayOccurrence(t *testing.T) {
	type testCase struct {
		r         Reminder
		ref       time.Time
		expectOK  bool
		expectDue time.Time
	}

	var cases = []testCase{
		testCase{
			// The application slept through both Jan 1 and Jan 2; the
			// next occurrence must be Jan 4, not Jan 2.
			r: Reminder{
				Title:      "Daily01",
				StartTime:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				DayRepeat:  &repeat.Interval{Num: 1, Unit: repeat.Day},
			},
			ref:       time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC),
		},
		testCase{
			r: Reminder{
				Title:      "Weekly01",
				StartTime:  time.Date(2023, 4, 3, 18, 30, 0, 0, time.UTC),
				RemindTime: time.Date(2023, 4, 3, 18, 30, 0, 0, time.UTC),
				DayRepeat:  &repeat.Interval{Num: 2, Unit: repeat.Week},
			},
			ref:       time.Date(2023, 4, 3, 19, 0, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2023, 4, 17, 18, 30, 0, 0, time.UTC),
		},
		testCase{
			// Jan 31 + 1 month lands on Mar 3 in a non-leap year; the
			// clock fields must survive the drift.
			r: Reminder{
				Title:      "Monthly01",
				StartTime:  time.Date(2023, 1, 31, 9, 15, 0, 0, time.UTC),
				RemindTime: time.Date(2023, 1, 31, 9, 15, 0, 0, time.UTC),
				DayRepeat:  &repeat.Interval{Num: 1, Unit: repeat.Month},
			},
			ref:       time.Date(2023, 2, 1, 8, 0, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2023, 3, 3, 9, 15, 0, 0, time.UTC),
		},
		testCase{
			r: Reminder{
				Title:      "OneShot01",
				StartTime:  time.Date(2023, 4, 3, 18, 30, 0, 0, time.UTC),
				RemindTime: time.Date(2023, 4, 3, 18, 30, 0, 0, time.UTC),
			},
			ref:      time.Date(2023, 4, 3, 19, 0, 0, 0, time.UTC),
			expectOK: false,
		},
	}

	for _, c := range cases {
		var due, ok = c.r.NextDayOccurrence(&c.ref)

		if ok != c.expectOK {
			t.Errorf("NextDayOccurrence(%s): expected ok = %t, got %t",
				c.r.Title,
				c.expectOK,
				ok)
		} else if ok && !due.Equal(c.expectDue) {
			t.Errorf(`Unexpected occurrence for %s:
Expected: %s
Got:      %s
`,
				c.r.Title,
				c.expectDue.Format(common.TimestampFormat),
				due.Format(common.TimestampFormat))
		}

		if ok && !due.After(c.ref) {
			t.Errorf("Occurrence for %s is not in the future: %s (ref %s)",
				c.r.Title,
				due.Format(common.TimestampFormat),
				c.ref.Format(common.TimestampFormat))
		}
	}
} // func TestNextDayOccurrence(t *testing.T)

func TestNextIntradayOccurrence(t *testing.T) {
	type testCase struct {
		r         Reminder
		ref       time.Time
		expectOK  bool
		expectDue time.Time
	}

	var cases = []testCase{
		testCase{
			r: Reminder{
				Title:      "HalfHourly01",
				StartTime:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				TimeRepeat: &repeat.Interval{Num: 30, Unit: repeat.Minute},
			},
			ref:       time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
		},
		testCase{
			// The next slot after 23:50 is 00:20 on the following day,
			// so the intraday rule is exhausted.
			r: Reminder{
				Title:      "Midnight01",
				StartTime:  time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
				TimeRepeat: &repeat.Interval{Num: 30, Unit: repeat.Minute},
			},
			ref:      time.Date(2024, 1, 2, 0, 5, 0, 0, time.UTC),
			expectOK: false,
		},
		testCase{
			r: Reminder{
				Title:      "Hourly01",
				StartTime:  time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC),
				RemindTime: time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC),
				TimeRepeat: &repeat.Interval{Num: 2, Unit: repeat.Hour},
			},
			ref:       time.Date(2023, 5, 1, 13, 30, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2023, 5, 1, 14, 0, 0, 0, time.UTC),
		},
	}

	for _, c := range cases {
		var due, ok = c.r.NextIntradayOccurrence(&c.ref)

		if ok != c.expectOK {
			t.Errorf("NextIntradayOccurrence(%s): expected ok = %t, got %t",
				c.r.Title,
				c.expectOK,
				ok)
		} else if ok && !due.Equal(c.expectDue) {
			t.Errorf(`Unexpected occurrence for %s:
Expected: %s
Got:      %s
`,
				c.r.Title,
				c.expectDue.Format(common.TimestampFormat),
				due.Format(common.TimestampFormat))
		}
	}
} // func TestNextIntradayOccurrence(t *testing.T)

func TestNextOccurrence(t *testing.T) {
	type testCase struct {
		r         Reminder
		ref       time.Time
		expectOK  bool
		expectDue time.Time
	}

	var cases = []testCase{
		testCase{
			// Intraday rule still has slots left today, it wins over
			// the day rule.
			r: Reminder{
				Title:      "Combined01",
				StartTime:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				DayRepeat:  &repeat.Interval{Num: 1, Unit: repeat.Day},
				TimeRepeat: &repeat.Interval{Num: 1, Unit: repeat.Hour},
			},
			ref:       time.Date(2024, 1, 1, 11, 10, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		testCase{
			// Intraday rule exhausted at midnight, the day rule takes
			// over and re-pins the start time.
			r: Reminder{
				Title:      "Combined02",
				StartTime:  time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
				DayRepeat:  &repeat.Interval{Num: 1, Unit: repeat.Day},
				TimeRepeat: &repeat.Interval{Num: 30, Unit: repeat.Minute},
			},
			ref:       time.Date(2024, 1, 2, 0, 5, 0, 0, time.UTC),
			expectOK:  true,
			expectDue: time.Date(2024, 1, 2, 23, 50, 0, 0, time.UTC),
		},
		testCase{
			// Intraday rule exhausted and no day rule: no successor.
			r: Reminder{
				Title:      "Exhausted01",
				StartTime:  time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
				TimeRepeat: &repeat.Interval{Num: 30, Unit: repeat.Minute},
			},
			ref:      time.Date(2024, 1, 2, 0, 5, 0, 0, time.UTC),
			expectOK: false,
		},
		testCase{
			r: Reminder{
				Title:      "OneShot02",
				StartTime:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				RemindTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			},
			ref:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			expectOK: false,
		},
	}

	for _, c := range cases {
		var due, ok = c.r.NextOccurrence(&c.ref)

		if ok != c.expectOK {
			t.Errorf("NextOccurrence(%s): expected ok = %t, got %t",
				c.r.Title,
				c.expectOK,
				ok)
		} else if ok && !due.Equal(c.expectDue) {
			t.Errorf(`Unexpected occurrence for %s:
Expected: %s
Got:      %s
`,
				c.r.Title,
				c.expectDue.Format(common.TimestampFormat),
				due.Format(common.TimestampFormat))
		}
	}
} // func TestNextOccurrence(t *testing.T)
