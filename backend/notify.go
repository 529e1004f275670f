// /home/krylon/go/src/github.com/blicero/mnemosyne/backend/notify.go
// -*- mode: go; coding: utf-8; -*-
// Created on 23. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-04 18:02:33 krylon>

package backend

import (
	"fmt"
	"log"
	"sync"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/scheduler"
	"github.com/godbus/dbus/v5"
)

const (
	notifyObj    = "org.freedesktop.Notifications"
	notifyIntf   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	sigQDepth    = 16

	actionSnooze = "snooze"
	actionStop   = "stop"
	actionSkip   = "skip"
)

// busNotifier posts desktop notifications over DBus and waits for the
// user's answer.
//
// Each notification carries action buttons; the ActionInvoked signal
// tells us which one the user pressed, NotificationClosed covers
// dismissal and expiry. Whichever signal arrives first for a given
// notification ID resolves the pending wait.
type busNotifier struct {
	log     *log.Logger
	bus     *dbus.Conn
	sigQ    chan *dbus.Signal
	lock    sync.Mutex
	pending map[uint32]chan scheduler.Outcome
}

func newBusNotifier() (*busNotifier, error) {
	var (
		err error
		n   = &busNotifier{
			sigQ:    make(chan *dbus.Signal, sigQDepth),
			pending: make(map[uint32]chan scheduler.Outcome),
		}
	)

	if n.log, err = common.GetLogger(logdomain.Backend); err != nil {
		return nil, err
	} else if n.bus, err = dbus.SessionBus(); err != nil {
		return nil, err
	}

	if err = n.bus.AddMatchSignal(
		dbus.WithMatchObjectPath(notifyPath),
		dbus.WithMatchInterface(notifyIntf),
	); err != nil {
		n.log.Printf("[ERROR] Cannot subscribe to notification signals: %s\n",
			err.Error())
		n.bus.Close() // nolint: errcheck
		return nil, err
	}

	n.bus.Signal(n.sigQ)
	go n.signalLoop()

	return n, nil
} // func newBusNotifier() (*busNotifier, error)

// Close disconnects from the session bus. Pending waits are left to
// starve; their goroutines die with the process.
func (n *busNotifier) Close() error {
	return n.bus.Close()
} // func (n *busNotifier) Close() error

// Notify posts a notification for the given Reminder and blocks until
// the user answers it or closes it.
func (n *busNotifier) Notify(rem *objects.Reminder, canFastForward bool) (scheduler.Outcome, error) {
	var (
		head, body = rem.Payload()
		actions    = []string{
			actionSnooze, "Snooze",
			actionStop, "Stop",
		}
	)

	if canFastForward {
		actions = append(actions, actionSkip, "Skip this one")
	}

	var obj = n.bus.Object(notifyObj, notifyPath)

	if obj == nil {
		var err = fmt.Errorf("Did not find object %s (%s) on session bus",
			notifyObj,
			notifyPath)
		n.log.Printf("[ERROR] %s\n", err.Error())
		return scheduler.OutcomeSnooze, err
	}

	// Holding the lock across the call closes the window between
	// learning the notification's ID and registering the wait.
	n.lock.Lock()

	var res = obj.Call(
		notifyMethod,
		0,
		common.AppName,
		uint32(0),
		"",
		head,
		body,
		actions,
		map[string]dbus.Variant{},
		int32(0),
	)

	if res.Err != nil {
		n.lock.Unlock()
		n.log.Printf("[ERROR] Cannot send Notification %q: %s\n",
			head,
			res.Err.Error())
		return scheduler.OutcomeSnooze, res.Err
	}

	var (
		err error
		nid uint32
	)

	if err = res.Store(&nid); err != nil {
		n.lock.Unlock()
		n.log.Printf("[ERROR] Cannot get ID of Notification %q: %s\n",
			head,
			err.Error())
		return scheduler.OutcomeSnooze, err
	}

	var answer = make(chan scheduler.Outcome, 1)
	n.pending[nid] = answer
	n.lock.Unlock()

	return <-answer, nil
} // func (n *busNotifier) Notify(rem *objects.Reminder, canFastForward bool) (scheduler.Outcome, error)

func (n *busNotifier) signalLoop() {
	defer n.log.Println("[TRACE] DBus signal loop is quitting")

	for sig := range n.sigQ {
		switch sig.Name {
		case notifyIntf + ".ActionInvoked":
			if len(sig.Body) < 2 {
				continue
			}

			var (
				nid, idOK  = sig.Body[0].(uint32)
				key, keyOK = sig.Body[1].(string)
			)

			if !(idOK && keyOK) {
				n.log.Printf("[CANTHAPPEN] Malformed ActionInvoked signal: %#v\n",
					sig.Body)
				continue
			}

			n.resolve(nid, outcomeForAction(key))
		case notifyIntf + ".NotificationClosed":
			if len(sig.Body) < 1 {
				continue
			}

			var nid, ok = sig.Body[0].(uint32)

			if !ok {
				n.log.Printf("[CANTHAPPEN] Malformed NotificationClosed signal: %#v\n",
					sig.Body)
				continue
			}

			n.resolve(nid, scheduler.OutcomeSnooze)
		}
	}
} // func (n *busNotifier) signalLoop()

func (n *busNotifier) resolve(nid uint32, out scheduler.Outcome) {
	n.lock.Lock()
	var answer, found = n.pending[nid]
	delete(n.pending, nid)
	n.lock.Unlock()

	// An ActionInvoked is usually followed by a NotificationClosed for
	// the same ID; the second one finds nothing to resolve. Signals for
	// other applications' notifications end up here, too.
	if found {
		answer <- out
	}
} // func (n *busNotifier) resolve(nid uint32, out scheduler.Outcome)

// outcomeForAction maps the pressed button to an Outcome. Skipping maps
// to Stop because the successor already exists by the time the
// notification is on screen; stopping the fired occurrence is all that
// is left to do.
func outcomeForAction(key string) scheduler.Outcome {
	switch key {
	case actionStop, actionSkip:
		return scheduler.OutcomeStop
	default:
		return scheduler.OutcomeSnooze
	}
} // func outcomeForAction(key string) scheduler.Outcome
