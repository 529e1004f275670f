// /home/krylon/go/src/github.com/blicero/mnemosyne/scheduler/scheduler.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 21:05:17 krylon>

// Package scheduler drives the due-checking loop: on a fixed interval
// it scans the Store for Reminders that should fire, spawns successors
// for recurring ones, and hands them to the Notifier. The user's answer
// decides whether a Reminder is stopped or snoozed.
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/store"
)

//go:generate stringer -type=Outcome

// Outcome is the user's answer to a notification.
type Outcome uint8

// A notification the user dismissed, ignored, or answered with anything
// but "stop" resolves to OutcomeSnooze.
const (
	OutcomeSnooze Outcome = iota
	OutcomeStop
)

// Action returns the outcome's name as recorded in the history journal.
func (o Outcome) Action() string {
	if o == OutcomeStop {
		return "stop"
	}

	return "snooze"
} // func (o Outcome) Action() string

// Clock supplies the current time. Tests substitute a frozen one.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used in production.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
} // func (SystemClock) Now() time.Time

// Notifier presents a notification to the user and blocks until the
// user answers or the notification is closed. There is no timeout on
// the user; an abandoned notification just blocks its goroutine until
// shutdown.
type Notifier interface {
	Notify(rem *objects.Reminder, canFastForward bool) (Outcome, error)
}

// BadgeUpdater is fed the number of currently relevant Reminders.
// Fire and forget, no reply expected.
type BadgeUpdater interface {
	UpdateCount(n int)
}

// Journal records notifications as they are presented and answered.
type Journal interface {
	ReminderFired(rem *objects.Reminder, stamp time.Time) int64
	ReminderAnswered(entryID int64, action string, stamp time.Time)
}

type noopBadge struct{}

func (noopBadge) UpdateCount(int) {}

type noopJournal struct{}

func (noopJournal) ReminderFired(*objects.Reminder, time.Time) int64 { return 0 }

func (noopJournal) ReminderAnswered(int64, string, time.Time) {}

// Scheduler polls the Store for due Reminders.
//
// It keeps no state between ticks except the set of Reminders whose
// notifications are still pending; that set is what keeps a later tick
// from firing a Reminder again while the user has not answered yet.
type Scheduler struct {
	log      *log.Logger
	st       *store.Store
	notifier Notifier
	badge    BadgeUpdater
	journal  Journal
	clock    Clock
	interval time.Duration
	fLock    sync.Mutex
	inFlight map[string]bool
	lock     sync.RWMutex
	active   bool
}

// New creates a Scheduler. Badge, journal and clock may be nil, in
// which case a no-op badge, a no-op journal, and the system clock are
// used. An interval of 0 means the application default.
func New(st *store.Store, notifier Notifier, badge BadgeUpdater, journal Journal, clock Clock, interval time.Duration) (*Scheduler, error) {
	var (
		err error
		s   = &Scheduler{
			st:       st,
			notifier: notifier,
			badge:    badge,
			journal:  journal,
			clock:    clock,
			interval: interval,
			inFlight: make(map[string]bool),
		}
	)

	if s.log, err = common.GetLogger(logdomain.Scheduler); err != nil {
		return nil, err
	}

	if s.badge == nil {
		s.badge = noopBadge{}
	}

	if s.journal == nil {
		s.journal = noopJournal{}
	}

	if s.clock == nil {
		s.clock = SystemClock{}
	}

	if s.interval == 0 {
		s.interval = common.CheckInterval()
	}

	return s, nil
} // func New(st *store.Store, notifier Notifier, badge BadgeUpdater, journal Journal, clock Clock, interval time.Duration) (*Scheduler, error)

// Start sets the Scheduler running.
func (s *Scheduler) Start() {
	s.lock.Lock()
	s.active = true
	s.lock.Unlock()

	go s.loop()
} // func (s *Scheduler) Start()

// Stop tells the Scheduler to cease checking. Notifications that are
// already on screen are not recalled.
func (s *Scheduler) Stop() {
	s.lock.Lock()
	s.active = false
	s.lock.Unlock()
} // func (s *Scheduler) Stop()

// IsAlive returns true if the Scheduler is running.
func (s *Scheduler) IsAlive() bool {
	s.lock.RLock()
	var alive = s.active
	s.lock.RUnlock()

	return alive
} // func (s *Scheduler) IsAlive() bool

func (s *Scheduler) loop() {
	defer s.log.Println("[TRACE] Scheduler loop is quitting")

	var tick = time.NewTicker(s.interval)
	defer tick.Stop()

	for s.IsAlive() {
		<-tick.C
		s.Tick()
	}
} // func (s *Scheduler) loop()

func (s *Scheduler) isInFlight(id string) bool {
	s.fLock.Lock()
	var pending = s.inFlight[id]
	s.fLock.Unlock()

	return pending
} // func (s *Scheduler) isInFlight(id string) bool

func (s *Scheduler) markInFlight(id string) {
	s.fLock.Lock()
	s.inFlight[id] = true
	s.fLock.Unlock()
} // func (s *Scheduler) markInFlight(id string)

func (s *Scheduler) clearInFlight(id string) {
	s.fLock.Lock()
	delete(s.inFlight, id)
	s.fLock.Unlock()
} // func (s *Scheduler) clearInFlight(id string)

// Tick performs one round of due-checking.
//
// Notifications within one tick are delivered concurrently; the tick
// does not wait for the user. Once all answers from this tick's batch
// are in, the state is persisted in one go.
func (s *Scheduler) Tick() {
	var (
		now   = s.clock.Now()
		batch sync.WaitGroup
		fired int
	)

	for _, rem := range s.st.Active() {
		if s.isInFlight(rem.ID) {
			continue
		}

		var (
			normalDue = rem.SnoozeRemindTime == nil && rem.ShouldRemind(&now)
			snoozeDue = rem.IsSnoozeDue(&now)
		)

		if !(normalDue || snoozeDue) {
			continue
		}

		if normalDue {
			// Spawn the successor before notifying, so the schedule
			// survives even if the user never answers.
			if succID, err := s.st.Recur(rem.ID); err != nil {
				s.log.Printf("[ERROR] Cannot spawn successor of %s (%q): %s\n",
					rem.ID,
					rem.Title,
					err.Error())
			} else if succID != "" {
				s.log.Printf("[DEBUG] Reminder %q recurs as %s\n",
					rem.Title,
					succID)
			}
		}

		s.st.MarkReminded(rem.ID, now) // nolint: errcheck
		s.markInFlight(rem.ID)
		batch.Add(1)
		fired++

		go s.deliver(rem, &batch)
	}

	if fired > 0 {
		go func() {
			batch.Wait()
			s.st.SaveNow() // nolint: errcheck
		}()
	}

	s.badge.UpdateCount(s.st.DueCount(&now))
} // func (s *Scheduler) Tick()

// deliver runs the notification round-trip for one Reminder.
func (s *Scheduler) deliver(rem objects.Reminder, batch *sync.WaitGroup) {
	defer batch.Done()
	defer s.clearInFlight(rem.ID)

	var (
		err     error
		outcome Outcome
		entryID = s.journal.ReminderFired(&rem, s.clock.Now())
	)

	if outcome, err = s.notifier.Notify(&rem, rem.IsRecurring()); err != nil {
		s.log.Printf("[ERROR] Cannot notify user about %q: %s\n",
			rem.Title,
			err.Error())
		outcome = OutcomeSnooze
	}

	switch outcome {
	case OutcomeStop:
		err = s.st.Stop(rem.ID)
	default:
		err = s.st.Snooze(rem.ID, s.clock.Now().Add(common.SnoozeDelay))
	}

	if err != nil {
		// Most likely the Reminder was deleted while the notification
		// was on screen. Nothing to do.
		s.log.Printf("[DEBUG] Cannot apply outcome %s to %s: %s\n",
			outcome,
			rem.ID,
			err.Error())
	}

	s.journal.ReminderAnswered(entryID, outcome.Action(), s.clock.Now())
} // func (s *Scheduler) deliver(rem objects.Reminder, batch *sync.WaitGroup)
