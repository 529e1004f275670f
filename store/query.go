// /home/krylon/go/src/github.com/blicero/mnemosyne/store/query.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 19:10:45 krylon>

package store

import (
	"time"

	"github.com/blicero/mnemosyne/objects"
)

// Get returns a copy of the Reminder with the given ID.
func (s *Store) Get(id string) (*objects.Reminder, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var r, ok = s.reminders[id]

	if !ok {
		return nil, ErrNotFound
	}

	return r.Clone(), nil
} // func (s *Store) Get(id string) (*objects.Reminder, error)

// All returns copies of all Reminders in insertion order.
func (s *Store) All() []objects.Reminder {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var list = make([]objects.Reminder, 0, len(s.ids))

	for _, id := range s.ids {
		if r, ok := s.reminders[id]; ok {
			list = append(list, *r.Clone())
		}
	}

	return list
} // func (s *Store) All() []objects.Reminder

// Active returns copies of all Reminders that are not stopped, in
// insertion order.
func (s *Store) Active() []objects.Reminder {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var list = make([]objects.Reminder, 0, len(s.ids))

	for _, id := range s.ids {
		if r, ok := s.reminders[id]; ok && !r.Stopped {
			list = append(list, *r.Clone())
		}
	}

	return list
} // func (s *Store) Active() []objects.Reminder

// Count returns the number of Reminders, stopped ones included.
func (s *Store) Count() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.ids)
} // func (s *Store) Count() int

// DueCount returns the number of active Reminders that are either past
// or due today. This is the number displayed on the badge.
func (s *Store) DueCount(ref *time.Time) int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var cnt int

	for _, id := range s.ids {
		var r, ok = s.reminders[id]

		if ok && !r.Stopped && (r.IsPast(ref) || r.IsToday(ref)) {
			cnt++
		}
	}

	return cnt
} // func (s *Store) DueCount(ref *time.Time) int

// TagNames returns the names of all known tags in the order they were
// first used.
func (s *Store) TagNames() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var names = make([]string, len(s.tagNames))
	copy(names, s.tagNames)

	return names
} // func (s *Store) TagNames() []string

// Tags returns a copy of the tag index.
func (s *Store) Tags() map[string][]string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var index = make(map[string][]string, len(s.tags))

	for tag, ids := range s.tags {
		var l = make([]string, len(ids))
		copy(l, ids)
		index[tag] = l
	}

	return index
} // func (s *Store) Tags() map[string][]string

// RemindersForTag returns copies of the Reminders carrying the given
// tag. IDs in the index that no longer resolve are skipped - the index
// is allowed to go stale when pruning is off.
func (s *Store) RemindersForTag(tag string) []objects.Reminder {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var (
		canonical = s.canonicalTag(tag)
		list      = make([]objects.Reminder, 0, len(s.tags[canonical]))
	)

	for _, id := range s.tags[canonical] {
		if r, ok := s.reminders[id]; ok {
			list = append(list, *r.Clone())
		}
	}

	return list
} // func (s *Store) RemindersForTag(tag string) []objects.Reminder

// Settings returns the application settings.
func (s *Store) Settings() objects.Settings {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.settings
} // func (s *Store) Settings() objects.Settings

// SetRunAtStartup updates the corresponding setting.
func (s *Store) SetRunAtStartup(val bool) {
	s.lock.Lock()
	s.settings.RunAtStartup = val
	s.lock.Unlock()

	s.markDirty()
} // func (s *Store) SetRunAtStartup(val bool)

// SetPruneTags updates the corresponding setting.
func (s *Store) SetPruneTags(val bool) {
	s.lock.Lock()
	s.settings.PruneTags = val
	s.lock.Unlock()

	s.markDirty()
} // func (s *Store) SetPruneTags(val bool)

// Preferences returns the persisted UI state.
func (s *Store) Preferences() objects.UIPreferences {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.prefs
} // func (s *Store) Preferences() objects.UIPreferences

// SetPreferences replaces the persisted UI state.
func (s *Store) SetPreferences(p objects.UIPreferences) {
	s.lock.Lock()
	s.prefs = p
	s.lock.Unlock()

	s.markDirty()
} // func (s *Store) SetPreferences(p objects.UIPreferences)
