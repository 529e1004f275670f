// /home/krylon/go/src/github.com/blicero/mnemosyne/store/event.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-23 17:51:08 krylon>

package store

//go:generate stringer -type=EventType

// EventType says what happened to a Reminder.
type EventType uint8

// The kinds of change a subscriber can be told about.
const (
	EvCreated EventType = iota
	EvUpdated
	EvDeleted
	EvStopped
)

// Event tells a subscriber that a Reminder changed.
type Event struct {
	Type EventType
	ID   string
}

const eventQueueDepth = 16

// Subscribe returns a channel on which the Store announces changes.
// A subscriber that does not keep up has events dropped, not queued
// without bound - the full state can always be re-read from the Store.
func (s *Store) Subscribe() <-chan Event {
	var q = make(chan Event, eventQueueDepth)

	s.subLock.Lock()
	s.subs = append(s.subs, q)
	s.subLock.Unlock()

	return q
} // func (s *Store) Subscribe() <-chan Event

func (s *Store) publish(t EventType, id string) {
	s.subLock.Lock()
	defer s.subLock.Unlock()

	for _, q := range s.subs {
		select {
		case q <- Event{Type: t, ID: id}:
		default:
			s.log.Printf("[DEBUG] Subscriber queue is full, dropping %s event for %s\n",
				t,
				id)
		}
	}
} // func (s *Store) publish(t EventType, id string)
