// /home/krylon/go/src/github.com/blicero/mnemosyne/store/tags.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 19:02:11 krylon>

package store

import (
	"strings"

	"github.com/blicero/mnemosyne/objects"
)

// canonicalTag returns the stored spelling of a tag, if one exists.
// Tags compare case-insensitively, the first spelling wins.
// Caller must hold at least the read lock.
func (s *Store) canonicalTag(tag string) string {
	for _, name := range s.tagNames {
		if strings.EqualFold(name, tag) {
			return name
		}
	}

	return tag
} // func (s *Store) canonicalTag(tag string) string

// putTag attaches a tag to a Reminder and maintains the tag index.
// Adding a tag the Reminder already carries is a no-op.
// Caller must hold the write lock.
func (s *Store) putTag(r *objects.Reminder, tag string) error {
	if tag == "" {
		return nil
	} else if r.HasTag(tag) {
		return nil
	} else if len(r.Tags) >= objects.MaxTags {
		return ErrTagLimit
	}

	var canonical = s.canonicalTag(tag)

	if _, ok := s.tags[canonical]; !ok {
		s.tagNames = append(s.tagNames, canonical)
		s.tags[canonical] = nil
	}

	r.Tags = append(r.Tags, canonical)

	for _, rid := range s.tags[canonical] {
		if rid == r.ID {
			return nil
		}
	}

	s.tags[canonical] = append(s.tags[canonical], r.ID)

	return nil
} // func (s *Store) putTag(r *objects.Reminder, tag string) error

// pruneTagIndex removes the given Reminder ID from the tag index and
// drops tags that end up without any Reminders.
// Caller must hold the write lock.
func (s *Store) pruneTagIndex(id string) {
	for tag, ids := range s.tags {
		var kept = make([]string, 0, len(ids))

		for _, rid := range ids {
			if rid != id {
				kept = append(kept, rid)
			}
		}

		if len(kept) == 0 {
			delete(s.tags, tag)

			var names = make([]string, 0, len(s.tagNames))
			for _, name := range s.tagNames {
				if name != tag {
					names = append(names, name)
				}
			}
			s.tagNames = names
		} else {
			s.tags[tag] = kept
		}
	}
} // func (s *Store) pruneTagIndex(id string)

// AddTag attaches a tag to a Reminder.
func (s *Store) AddTag(id, tag string) error {
	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	var err = s.putTag(r, tag)

	if err == nil {
		r.Changed = now
	}

	s.lock.Unlock()

	if err != nil {
		return err
	}

	s.publish(EvUpdated, id)
	s.markDirty()

	return nil
} // func (s *Store) AddTag(id, tag string) error

// RemoveTag detaches a tag from a Reminder. The tag name itself stays
// known to the Store even if no Reminder carries it anymore.
func (s *Store) RemoveTag(id, tag string) error {
	var now = s.now()

	s.lock.Lock()

	var r, ok = s.reminders[id]

	if !ok {
		s.lock.Unlock()
		return ErrNotFound
	}

	var kept = make([]string, 0, len(r.Tags))

	for _, t := range r.Tags {
		if !strings.EqualFold(t, tag) {
			kept = append(kept, t)
		}
	}

	r.Tags = kept
	r.Changed = now

	var canonical = s.canonicalTag(tag)

	if ids, found := s.tags[canonical]; found {
		var remaining = make([]string, 0, len(ids))

		for _, rid := range ids {
			if rid != id {
				remaining = append(remaining, rid)
			}
		}

		s.tags[canonical] = remaining
	}

	s.lock.Unlock()

	s.publish(EvUpdated, id)
	s.markDirty()

	return nil
} // func (s *Store) RemoveTag(id, tag string) error
