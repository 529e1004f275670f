// /home/krylon/go/src/github.com/blicero/mnemosyne/store/store.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 18:20:17 krylon>

// Package store owns the application's state: the Reminders, the tag
// index, and the settings. All mutations go through its methods, which
// emit change events to subscribers and schedule a save of the whole
// state to the data file.
package store

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/docstore"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/blicero/mnemosyne/objects"
)

// The errors the Store's methods can return.
// A caller that gets ErrNotFound raced against a delete; treating the
// operation as a no-op is the intended recovery.
var (
	ErrNotFound     = errors.New("no Reminder with that ID exists")
	ErrNoTitle      = errors.New("a Reminder needs a non-empty title")
	ErrTagLimit     = errors.New("a Reminder cannot carry more tags")
	ErrNotRecurring = errors.New("the Reminder has no applicable repeat rule")
)

// Store is the authoritative in-memory state of the application.
type Store struct {
	log       *log.Logger
	lock      sync.RWMutex
	ids       []string
	reminders map[string]*objects.Reminder
	tagNames  []string
	tags      map[string][]string
	settings  objects.Settings
	prefs     objects.UIPreferences
	doc       *docstore.Store
	now       func() time.Time
	subs      []chan Event
	subLock   sync.Mutex
	dirty     chan struct{}
	done      chan struct{}
}

// Open creates a Store backed by the given document store and loads the
// persisted state.
//
// A missing data file means a fresh start; a malformed one is treated
// as empty, and a fresh snapshot is written immediately so subsequent
// saves do not keep failing.
func Open(doc *docstore.Store) (*Store, error) {
	var (
		err error
		s   = &Store{
			reminders: make(map[string]*objects.Reminder),
			tags:      make(map[string][]string),
			settings:  objects.DefaultSettings(),
			doc:       doc,
			now:       time.Now,
			dirty:     make(chan struct{}, 1),
			done:      make(chan struct{}),
		}
	)

	if s.log, err = common.GetLogger(logdomain.Store); err != nil {
		return nil, err
	}

	var d *docstore.Document

	if d, err = doc.Load(); err != nil {
		if !errors.Is(err, docstore.ErrMalformed) {
			return nil, err
		}

		s.log.Printf("[WARN] Data file is malformed, starting with an empty state: %s\n",
			err.Error())

		if err = doc.Save(s.makeDocument()); err != nil {
			s.log.Printf("[ERROR] Cannot write fresh data file: %s\n",
				err.Error())
		}
	} else if d != nil {
		s.ids = d.ReminderIDs
		if d.AllReminders != nil {
			s.reminders = d.AllReminders
		}
		if d.AllTags != nil {
			s.tags = d.AllTags
		}
		s.tagNames = d.TagNames
		if d.AppSettings != nil {
			s.settings = *d.AppSettings
		}
		if d.UIPreferences != nil {
			s.prefs = *d.UIPreferences
		}
	}

	go s.saveLoop()

	return s, nil
} // func Open(doc *docstore.Store) (*Store, error)

// SetClock replaces the Store's notion of the current time.
// Tests use this to freeze the clock; production code has no reason to
// call it.
func (s *Store) SetClock(clock func() time.Time) {
	s.lock.Lock()
	s.now = clock
	s.lock.Unlock()
} // func (s *Store) SetClock(clock func() time.Time)

// Close stops the background saver and writes a final snapshot.
func (s *Store) Close() error {
	close(s.done)
	return s.SaveNow()
} // func (s *Store) Close() error

// makeDocument assembles a Document from the current state.
// Caller must hold at least the read lock (or have exclusive access).
func (s *Store) makeDocument() *docstore.Document {
	var (
		settings = s.settings
		prefs    = s.prefs
		doc      = &docstore.Document{
			ReminderIDs:   make([]string, len(s.ids)),
			AllReminders:  make(map[string]*objects.Reminder, len(s.reminders)),
			AllTags:       make(map[string][]string, len(s.tags)),
			TagNames:      make([]string, len(s.tagNames)),
			AppSettings:   &settings,
			UIPreferences: &prefs,
		}
	)

	copy(doc.ReminderIDs, s.ids)
	copy(doc.TagNames, s.tagNames)

	for id, r := range s.reminders {
		doc.AllReminders[id] = r.Clone()
	}

	for tag, ids := range s.tags {
		var l = make([]string, len(ids))
		copy(l, ids)
		doc.AllTags[tag] = l
	}

	return doc
} // func (s *Store) makeDocument() *docstore.Document

// SaveNow writes the current state to the data file, synchronously.
// A failed save is logged but not retried - the in-memory state remains
// the source of truth, and the next save attempt carries all pending
// changes anyway.
func (s *Store) SaveNow() error {
	s.lock.RLock()
	var doc = s.makeDocument()
	s.lock.RUnlock()

	var err error

	if err = s.doc.Save(doc); err != nil {
		s.log.Printf("[ERROR] Cannot save state: %s\n",
			err.Error())
	}

	return err
} // func (s *Store) SaveNow() error

// markDirty schedules an asynchronous save of the full state.
// Saves coalesce: while one is pending, further marks are no-ops.
func (s *Store) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
} // func (s *Store) markDirty()

func (s *Store) saveLoop() {
	defer s.log.Println("[TRACE] saveLoop is quitting")

	for {
		select {
		case <-s.done:
			return
		case <-s.dirty:
			s.SaveNow() // nolint: errcheck
		}
	}
} // func (s *Store) saveLoop()
