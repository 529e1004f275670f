// /home/krylon/go/src/github.com/blicero/mnemosyne/objects/repeat/repeat.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-17 18:02:44 krylon>

//go:generate stringer -type=Unit

// Package repeat provides the vocabulary to describe at what intervals
// a Reminder recurs.
package repeat

import (
	"bytes"
	"fmt"
	"strings"
)

// Unit is the unit of a repeat interval.
type Unit uint8

// Minute and Hour describe intraday recurrence, i.e. a Reminder that
// goes off several times over the course of one day.
// Day, Week, Month and Year describe day-level recurrence.
const (
	Minute Unit = iota
	Hour
	Day
	Week
	Month
	Year
)

// AllUnits returns a slice of all valid Units.
func AllUnits() []Unit {
	return []Unit{
		Minute,
		Hour,
		Day,
		Week,
		Month,
		Year,
	}
} // func AllUnits() []Unit

// Intraday returns true if the receiver describes recurrence within a
// single day.
func (u Unit) Intraday() bool {
	return u <= Hour
} // func (u Unit) Intraday() bool

// The names the data file uses for the units.
var unitNames = [...]string{
	"minute",
	"hour",
	"day",
	"week",
	"month",
	"year",
}

// UnitFromString parses the string representation of a Unit as it
// appears in the data file.
func UnitFromString(s string) (Unit, error) {
	for idx, name := range unitNames {
		if strings.EqualFold(s, name) {
			return Unit(idx), nil
		}
	}

	return 0, fmt.Errorf("Invalid repeat unit %q", s)
} // func UnitFromString(s string) (Unit, error)

// MarshalJSON implements the json.Marshaler interface.
func (u Unit) MarshalJSON() ([]byte, error) {
	if int(u) >= len(unitNames) {
		return nil, fmt.Errorf("Invalid repeat unit %d", u)
	}

	return []byte(`"` + unitNames[u] + `"`), nil
} // func (u Unit) MarshalJSON() ([]byte, error)

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Unit) UnmarshalJSON(data []byte) error {
	var (
		err error
		val Unit
	)

	if val, err = UnitFromString(string(bytes.Trim(data, `"`))); err != nil {
		return err
	}

	*u = val
	return nil
} // func (u *Unit) UnmarshalJSON(data []byte) error

// Interval describes how often a Reminder repeats, e.g. "every 2 weeks"
// or "every 30 minutes".
type Interval struct {
	Num  int  `json:"num"`
	Unit Unit `json:"unit"`
}

// Validate returns an error if the Interval is not usable.
func (i *Interval) Validate() error {
	if i.Num < 1 {
		return fmt.Errorf("Invalid repeat count %d (must be >= 1)",
			i.Num)
	} else if int(i.Unit) >= len(unitNames) {
		return fmt.Errorf("Invalid repeat unit %d", i.Unit)
	}

	return nil
} // func (i *Interval) Validate() error

func (i *Interval) String() string {
	if i == nil {
		return "(none)"
	} else if i.Num == 1 {
		return fmt.Sprintf("every %s", unitNames[i.Unit])
	}

	return fmt.Sprintf("every %d %ss",
		i.Num,
		unitNames[i.Unit])
} // func (i *Interval) String() string
