// /home/krylon/go/src/github.com/blicero/mnemosyne/clients/remind/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 28. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-05 22:05:48 krylon>

// remind is a small command line client: it builds a Reminder from its
// arguments and submits it to the daemon, or lists what is pending.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blicero/mnemosyne/clients/clientlib"
	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/objects/repeat"
)

func main() {
	var (
		err                          error
		client                       *clientlib.Client
		srv, title, note, date, hour string
		tags, every                  string
		list                         bool
	)

	flag.StringVar(
		&srv,
		"server",
		fmt.Sprintf("localhost:%d", common.DefaultPort),
		"Address of the daemon")
	flag.StringVar(&title, "title", "", "Title of the Reminder")
	flag.StringVar(&note, "note", "", "Optional note")
	flag.StringVar(&date, "date", "", "Due date (YYYY-MM-DD, default today)")
	flag.StringVar(&hour, "time", "", "Due time (HH:MM)")
	flag.StringVar(&tags, "tags", "", "Comma-separated list of tags")
	flag.StringVar(&every, "every", "", "Repeat rule, e.g. \"1 day\" or \"30 minute\"")
	flag.BoolVar(&list, "list", false, "List pending Reminders instead of creating one")

	flag.Parse()

	if client, err = clientlib.NewClient(srv); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create Client: %s\n",
			err.Error())
		os.Exit(1)
	}

	if list {
		listPending(client)
		return
	}

	if title == "" {
		fmt.Fprintln(os.Stderr, "A Reminder needs a -title")
		os.Exit(1)
	} else if hour == "" {
		fmt.Fprintln(os.Stderr, "A Reminder needs a -time")
		os.Exit(1)
	}

	var rem = objects.Reminder{
		Title: title,
		Note:  note,
	}

	if date == "" {
		rem.StartDate = time.Now()
	} else if rem.StartDate, err = time.ParseInLocation(common.TimestampFormatDate, date, time.Local); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot parse date %q: %s\n",
			date,
			err.Error())
		os.Exit(1)
	}

	if rem.StartTime, err = time.Parse(common.TimestampFormatClock, hour); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot parse time %q: %s\n",
			hour,
			err.Error())
		os.Exit(1)
	}

	if tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				rem.Tags = append(rem.Tags, t)
			}
		}
	}

	if every != "" {
		var iv *repeat.Interval

		if iv, err = parseEvery(every); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Cannot parse repeat rule %q: %s\n",
				every,
				err.Error())
			os.Exit(1)
		}

		if iv.Unit.Intraday() {
			rem.TimeRepeat = iv
		} else {
			rem.DayRepeat = iv
		}
	}

	var id string

	if id, err = client.SubmitReminder(&rem); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to submit Reminder: %s\n",
			err.Error())
		os.Exit(1)
	}

	fmt.Printf("Created Reminder %s\n", id)
} // func main()

func listPending(client *clientlib.Client) {
	var (
		err       error
		reminders []objects.Reminder
	)

	if reminders, err = client.FetchPending(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to fetch pending Reminders: %s\n",
			err.Error())
		os.Exit(1)
	}

	for idx := range reminders {
		var rem = &reminders[idx]
		fmt.Printf("%s  %s  %s\n",
			rem.ID,
			rem.DueTime().Format(common.TimestampFormatMinute),
			rem.Title)
	}
} // func listPending(client *clientlib.Client)

func parseEvery(spec string) (*repeat.Interval, error) {
	var (
		err  error
		iv   repeat.Interval
		unit string
	)

	if _, err = fmt.Sscanf(spec, "%d %s", &iv.Num, &unit); err != nil {
		return nil, err
	} else if iv.Unit, err = repeat.UnitFromString(strings.TrimSuffix(unit, "s")); err != nil {
		return nil, err
	} else if err = iv.Validate(); err != nil {
		return nil, err
	}

	return &iv, nil
} // func parseEvery(spec string) (*repeat.Interval, error)
