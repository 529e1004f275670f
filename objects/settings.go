// /home/krylon/go/src/github.com/blicero/mnemosyne/objects/settings.go
// -*- mode: go; coding: utf-8; -*-
// Created on 06. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-22 20:03:36 krylon>

package objects

//go:generate ffjson settings.go

// Settings is the application's persistent configuration.
//
// PruneTags controls whether deleting a Reminder removes its id from
// the tag index and drops tags that end up with no Reminders. The
// index is append-mostly by default, so tags stay visible in the
// sidebar even when no current Reminder carries them.
type Settings struct {
	RunAtStartup bool `json:"runAtStartup"`
	PruneTags    bool `json:"pruneTags"`
}

// DefaultSettings returns the Settings used when no data file exists
// yet.
func DefaultSettings() Settings {
	return Settings{
		RunAtStartup: true,
	}
} // func DefaultSettings() Settings

// UIPreferences is display state the frontends persist alongside the
// Reminders. The backend carries it through the data file without
// interpreting it.
type UIPreferences struct {
	SelectedList string                     `json:"selectedDefaultList,omitempty"`
	SelectedTag  string                     `json:"selectedTag,omitempty"`
	OpenGroups   map[string]map[string]bool `json:"reminderListOpenGroups,omitempty"`
}
