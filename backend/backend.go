// /home/krylon/go/src/github.com/blicero/mnemosyne/backend/backend.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-04 17:21:08 krylon>

// Package backend implements the daemon: it wires up the Store, the
// Scheduler, the history journal and the desktop notifications, and it
// exposes the HTTP API the clients talk to.
package backend

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/database"
	"github.com/blicero/mnemosyne/docstore"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/scheduler"
	"github.com/blicero/mnemosyne/store"
	"github.com/gorilla/mux"
	"github.com/grandcat/zeroconf"
)

const poolSize = 4

// Daemon is the centerpiece of the backend, coordinating between the
// Store, the Scheduler, the notification bus, and the clients.
type Daemon struct {
	log        *log.Logger
	doc        *docstore.Store
	st         *store.Store
	pool       *database.Pool
	sched      *scheduler.Scheduler
	notifier   *busNotifier
	web        http.Server
	router     *mux.Router
	dnssd      *zeroconf.Server
	hostname   string
	listenAddr string
	lock       sync.RWMutex
	active     bool
	idLock     sync.Mutex
	idCnt      int64
	badgeCnt   int64
}

// Summon summons a Daemon and returns it. No sacrifice or idolatry is required.
func Summon(addr string) (*Daemon, error) {
	var (
		err error
		d   = &Daemon{
			listenAddr: addr,
			active:     true,
			router:     mux.NewRouter(),
		}
	)

	if d.log, err = common.GetLogger(logdomain.Backend); err != nil {
		fmt.Printf("ERROR initializing Logger: %s\n",
			err.Error())
		return nil, err
	} else if err = common.InitApp(); err != nil {
		d.log.Printf("[ERROR] Cannot initialize application directory: %s\n",
			err.Error())
		return nil, err
	} else if d.hostname, err = os.Hostname(); err != nil {
		d.log.Printf("[ERROR] Cannot query hostname: %s\n",
			err.Error())
		return nil, err
	} else if d.doc, err = docstore.New(""); err != nil {
		d.log.Printf("[ERROR] Cannot create document store: %s\n",
			err.Error())
		return nil, err
	} else if d.st, err = store.Open(d.doc); err != nil {
		d.log.Printf("[ERROR] Cannot open Store: %s\n",
			err.Error())
		return nil, err
	} else if d.pool, err = database.NewPool(poolSize); err != nil {
		d.log.Printf("[ERROR] Cannot initialize database pool: %s\n",
			err.Error())
		return nil, err
	} else if d.notifier, err = newBusNotifier(); err != nil {
		d.log.Printf("[ERROR] Failed to connect to DBus session bus: %s\n",
			err.Error())
		return nil, err
	}

	var journal = &dbJournal{
		pool: d.pool,
		log:  d.log,
	}

	if d.sched, err = scheduler.New(d.st, d.notifier, d, journal, nil, 0); err != nil {
		d.log.Printf("[ERROR] Cannot create Scheduler: %s\n",
			err.Error())
		return nil, err
	}

	d.web.Addr = addr
	d.web.ErrorLog = d.log
	d.web.Handler = d.router

	if err = d.initWebHandlers(); err != nil {
		d.log.Printf("[ERROR] Failed to initialize web server: %s\n",
			err.Error())
		return nil, err
	}

	// The announcement is a convenience for clients; a daemon that
	// cannot register with DNS-SD is still fully functional.
	if err = d.initDNSSd(); err != nil {
		d.log.Printf("[WARN] Cannot announce service via DNS-SD: %s\n",
			err.Error())
	}

	d.sched.Start()
	go d.serveHTTP()

	return d, nil
} // func Summon(addr string) (*Daemon, error)

// IsAlive returns true if the Daemon's active flag is set.
func (d *Daemon) IsAlive() bool {
	d.lock.RLock()
	var alive = d.active
	d.lock.RUnlock()

	return alive
} // func (d *Daemon) IsAlive() bool

// Banish tells the Daemon's components to shut down and writes a final
// snapshot of the state.
func (d *Daemon) Banish() error {
	var (
		err         error
		ctx, cancel = context.WithTimeout(context.Background(), time.Second*3)
	)
	defer cancel()

	d.sched.Stop()

	if err = d.web.Shutdown(ctx); err != nil {
		d.log.Printf("[ERROR] Failed to shutdown web server: %s\n",
			err.Error())
	}

	if ctx.Err() != nil {
		err = ctx.Err()
		d.log.Printf("[ERROR] Failed to gracefully shut down web server: %s\n",
			ctx.Err().Error())
		d.web.Close() // nolint: errcheck
	}

	if d.dnssd != nil {
		d.dnssd.Shutdown()
	}

	d.notifier.Close() // nolint: errcheck

	if e := d.st.Close(); e != nil {
		d.log.Printf("[ERROR] Failed to write final snapshot: %s\n",
			e.Error())
		if err == nil {
			err = e
		}
	}

	if e := d.pool.Close(); e != nil {
		d.log.Printf("[ERROR] Failed to close database pool: %s\n",
			e.Error())
		if err == nil {
			err = e
		}
	}

	d.lock.Lock()
	d.active = false
	d.lock.Unlock()
	return err
} // func (d *Daemon) Banish() error

// UpdateCount receives the current number of relevant Reminders from
// the Scheduler.
func (d *Daemon) UpdateCount(n int) {
	var old = atomic.SwapInt64(&d.badgeCnt, int64(n))

	if old != int64(n) {
		d.log.Printf("[DEBUG] Badge count is now %d\n",
			n)
	}
} // func (d *Daemon) UpdateCount(n int)

// BadgeCount returns the most recent count the Scheduler reported.
func (d *Daemon) BadgeCount() int {
	return int(atomic.LoadInt64(&d.badgeCnt))
} // func (d *Daemon) BadgeCount() int

func (d *Daemon) getID() int64 {
	d.idLock.Lock()
	d.idCnt++
	var id = d.idCnt
	d.idLock.Unlock()
	return id
} // func (d *Daemon) getID() int64

// dbJournal feeds the Scheduler's journal into the history database.
// Journaling is best-effort; a failure must never hold up a
// notification.
type dbJournal struct {
	pool *database.Pool
	log  *log.Logger
}

func (j *dbJournal) ReminderFired(rem *objects.Reminder, stamp time.Time) int64 {
	var (
		err error
		id  int64
		db  = j.pool.Get()
	)
	defer j.pool.Put(db)

	if db == nil {
		return 0
	} else if id, err = db.HistoryAdd(rem, stamp); err != nil {
		j.log.Printf("[ERROR] Cannot journal notification for %q: %s\n",
			rem.Title,
			err.Error())
		return 0
	}

	return id
} // func (j *dbJournal) ReminderFired(rem *objects.Reminder, stamp time.Time) int64

func (j *dbJournal) ReminderAnswered(entryID int64, action string, stamp time.Time) {
	if entryID == 0 {
		return
	}

	var db = j.pool.Get()
	defer j.pool.Put(db)

	if db == nil {
		return
	} else if err := db.HistorySetAction(entryID, action); err != nil {
		j.log.Printf("[ERROR] Cannot journal answer on entry %d: %s\n",
			entryID,
			err.Error())
	}
} // func (j *dbJournal) ReminderAnswered(entryID int64, action string, stamp time.Time)
