// /home/krylon/go/src/github.com/blicero/mnemosyne/docstore/docstore.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-01 21:14:03 krylon>

// Package docstore persists the application's state as a single JSON
// document. The document is always written as a whole, never patched,
// so the last completed save wins and a torn write cannot leave a
// half-updated file behind.
package docstore

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/blicero/krylib"
	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/blicero/mnemosyne/objects"
	"github.com/pquerna/ffjson/ffjson"
)

//go:generate ffjson docstore.go

// ErrMalformed indicates that the data file exists but could not be
// parsed.
var ErrMalformed = errors.New("data file is malformed")

// Document is the on-disk shape of the application state.
//
// All date-valued fields are typed time.Time on the respective structs,
// so parsing them back from their string form is handled by the schema
// rather than by guessing which strings look like dates.
type Document struct {
	ReminderIDs   []string                     `json:"reminderIds"`
	AllReminders  map[string]*objects.Reminder `json:"allReminders"`
	AllTags       map[string][]string          `json:"allTags"`
	TagNames      []string                     `json:"tagNames"`
	AppSettings   *objects.Settings            `json:"appSettings,omitempty"`
	UIPreferences *objects.UIPreferences       `json:"uiPreferences,omitempty"`
}

// Store reads and writes the data file.
type Store struct {
	path string
	log  *log.Logger
	lock sync.Mutex
}

// New creates a Store for the data file at the given path.
// If path is empty, the default location below the application's base
// directory is used.
func New(path string) (*Store, error) {
	var (
		err error
		s   = &Store{path: path}
	)

	if s.path == "" {
		s.path = common.DocumentPath
	}

	if s.log, err = common.GetLogger(logdomain.DocStore); err != nil {
		return nil, err
	}

	return s, nil
} // func New(path string) (*Store, error)

// Path returns the location of the data file.
func (s *Store) Path() string {
	return s.path
} // func (s *Store) Path() string

// Load reads the data file and returns the parsed Document.
// If the file does not exist, it returns nil without an error - the
// caller starts with a fresh state. A file that exists but cannot be
// parsed yields ErrMalformed.
func (s *Store) Load() (*Document, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var (
		err   error
		exist bool
		buf   []byte
		doc   Document
	)

	if exist, err = krylib.Fexists(s.path); err != nil {
		s.log.Printf("[ERROR] Cannot check data file %s: %s\n",
			s.path,
			err.Error())
		return nil, err
	} else if !exist {
		s.log.Printf("[INFO] Data file %s does not exist\n",
			s.path)
		return nil, nil
	}

	if buf, err = os.ReadFile(s.path); err != nil {
		s.log.Printf("[ERROR] Cannot read data file %s: %s\n",
			s.path,
			err.Error())
		return nil, err
	} else if err = ffjson.Unmarshal(buf, &doc); err != nil {
		s.log.Printf("[ERROR] Cannot parse data file %s: %s\n",
			s.path,
			err.Error())
		return nil, fmt.Errorf("%w: %s",
			ErrMalformed,
			err.Error())
	}

	return &doc, nil
} // func (s *Store) Load() (*Document, error)

// Save serializes the Document and replaces the data file atomically.
func (s *Store) Save(doc *Document) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var (
		err error
		buf []byte
		tmp = s.path + ".tmp"
	)

	if buf, err = ffjson.Marshal(doc); err != nil {
		s.log.Printf("[ERROR] Cannot serialize state: %s\n",
			err.Error())
		return err
	}

	defer ffjson.Pool(buf)

	if err = os.WriteFile(tmp, buf, 0644); err != nil {
		s.log.Printf("[ERROR] Cannot write temporary file %s: %s\n",
			tmp,
			err.Error())
		return err
	} else if err = os.Rename(tmp, s.path); err != nil {
		s.log.Printf("[ERROR] Cannot replace data file %s: %s\n",
			s.path,
			err.Error())
		os.Remove(tmp) // nolint: errcheck
		return err
	}

	return nil
} // func (s *Store) Save(doc *Document) error
