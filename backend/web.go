// /home/krylon/go/src/github.com/blicero/mnemosyne/backend/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-05 20:37:46 krylon>

package backend

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/database"
	"github.com/blicero/mnemosyne/objects"
	"github.com/blicero/mnemosyne/objects/repeat"
	"github.com/blicero/mnemosyne/store"
	"github.com/gorilla/mux"
	"github.com/pquerna/ffjson/ffjson"
)

const defaultHistoryMax = 20

func (d *Daemon) initWebHandlers() error {
	d.router.HandleFunc("/reminder/add", d.handleReminderAdd)
	d.router.HandleFunc("/reminder/pending", d.handleReminderGetPending)
	d.router.HandleFunc("/reminder/all", d.handleReminderGetAll)
	d.router.HandleFunc("/reminder/{id}/update", d.handleReminderUpdate)
	d.router.HandleFunc("/reminder/{id}/delete", d.handleReminderDelete)
	d.router.HandleFunc("/reminder/{id}/stop", d.handleReminderStop)
	d.router.HandleFunc("/reminder/{id}/continue", d.handleReminderContinue)
	d.router.HandleFunc("/reminder/{id}/snooze", d.handleReminderSnooze)
	d.router.HandleFunc("/reminder/{id}/fastforward", d.handleReminderFastForward)
	d.router.HandleFunc("/reminder/{id}/tag/add", d.handleTagAdd)
	d.router.HandleFunc("/reminder/{id}/tag/remove", d.handleTagRemove)
	d.router.HandleFunc("/reminder/{id}", d.handleReminderGet)
	d.router.HandleFunc("/tag/all", d.handleTagGetAll)
	d.router.HandleFunc("/badge", d.handleBadgeGet)
	d.router.HandleFunc("/history/recent", d.handleHistoryRecent)
	d.router.HandleFunc("/settings/startup", d.handleSettingsStartup)

	return nil
} // func (d *Daemon) initWebHandlers() error

func (d *Daemon) serveHTTP() {
	var err error

	defer d.log.Println("[INFO] Web server is shutting down")

	d.log.Printf("[INFO] Web interface is going online at %s\n", d.web.Addr)

	if err = d.web.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			d.log.Printf("[ERROR] ListenAndServe returned an error: %s\n",
				err.Error())
		} else {
			d.log.Println("[INFO] HTTP Server has shut down.")
		}
	}
} // func (d *Daemon) serveHTTP()

func (d *Daemon) handleReminderAdd(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		rem      objects.Reminder
		id, msg  string
		response = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		d.log.Printf("[ERROR] Cannot parse form data: %s\n",
			err.Error())
		response.Message = err.Error()
		goto SEND_RESPONSE
	}

	if err = ffjson.Unmarshal([]byte(r.PostFormValue("reminder")), &rem); err != nil {
		msg = fmt.Sprintf("Cannot parse Reminder: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	if id, err = d.st.Create(&rem); err != nil {
		msg = fmt.Sprintf("Cannot create Reminder %q: %s",
			rem.Title,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		response.Message = msg
		goto SEND_RESPONSE
	}

	response.Message = id
	response.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleReminderAdd(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderGetPending(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	d.sendListJSON(w, d.st.Active())
} // func (d *Daemon) handleReminderGetPending(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderGetAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	d.sendListJSON(w, d.st.All())
} // func (d *Daemon) handleReminderGetAll(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderGet(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err  error
		rem  *objects.Reminder
		buf  []byte
		vars = mux.Vars(r)
		id   = vars["id"]
	)

	if rem, err = d.st.Get(id); err != nil {
		var response = objects.Response{
			ID:      d.getID(),
			Message: fmt.Sprintf("Reminder %s: %s", id, err.Error()),
		}
		d.log.Printf("[DEBUG] Reminder %s was not found\n", id)
		d.sendResponseJSON(w, &response)
		return
	}

	if buf, err = ffjson.Marshal(rem); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Reminder %s: %s\n",
			id,
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleReminderGet(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderUpdate(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err   error
		msg   string
		patch store.EditPatch
		vars  = mux.Vars(r)
		id    = vars["id"]
		res   = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	if _, ok := r.PostForm["title"]; ok {
		var title = r.PostFormValue("title")
		patch.Title = &title
	}

	if _, ok := r.PostForm["note"]; ok {
		var note = r.PostFormValue("note")
		patch.Note = &note
	}

	if tstr := r.PostFormValue("date"); tstr != "" {
		var t time.Time
		if t, err = time.Parse(common.TimestampFormatDate, tstr); err != nil {
			msg = fmt.Sprintf("Cannot parse date %q: %s",
				tstr,
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}
		patch.StartDate = &t
	}

	if tstr := r.PostFormValue("time"); tstr != "" {
		var t time.Time
		if t, err = time.Parse(common.TimestampFormatClock, tstr); err != nil {
			msg = fmt.Sprintf("Cannot parse time %q: %s",
				tstr,
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}
		patch.StartTime = &t
	}

	if patch.DayRepeat, patch.ClearDayRepeat, err = parseRepeat(r.PostFormValue("dayRepeat")); err != nil {
		msg = fmt.Sprintf("Cannot parse day repeat rule: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	if patch.TimeRepeat, patch.ClearTimeRepeat, err = parseRepeat(r.PostFormValue("timeRepeat")); err != nil {
		msg = fmt.Sprintf("Cannot parse time repeat rule: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	if err = d.st.Edit(id, &patch); err != nil {
		msg = fmt.Sprintf("Cannot update Reminder %s: %s",
			id,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Status = true
	res.Message = "OK"

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleReminderUpdate(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderDelete(w http.ResponseWriter, r *http.Request) {
	d.handleSimpleCommand(w, r, "delete", d.st.Delete)
} // func (d *Daemon) handleReminderDelete(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderStop(w http.ResponseWriter, r *http.Request) {
	d.handleSimpleCommand(w, r, "stop", d.st.Stop)
} // func (d *Daemon) handleReminderStop(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderContinue(w http.ResponseWriter, r *http.Request) {
	d.handleSimpleCommand(w, r, "continue", d.st.Continue)
} // func (d *Daemon) handleReminderContinue(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderSnooze(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err   error
		msg   string
		until time.Time
		vars  = mux.Vars(r)
		id    = vars["id"]
		res   = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	if tstr := r.PostFormValue("until"); tstr != "" {
		if until, err = time.Parse(time.RFC3339, tstr); err != nil {
			msg = fmt.Sprintf("Cannot parse timestamp %q: %s",
				tstr,
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}
	} else {
		until = time.Now().Add(common.SnoozeDelay)
	}

	if err = d.st.Snooze(id, until); err != nil {
		msg = fmt.Sprintf("Cannot snooze Reminder %s: %s",
			id,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Status = true
	res.Message = until.Format(time.RFC3339)

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleReminderSnooze(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleReminderFastForward(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err    error
		msg    string
		succID string
		vars   = mux.Vars(r)
		id     = vars["id"]
		res    = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	if succID, err = d.st.FastForward(id, r.PostFormValue("unit") == "day"); err != nil {
		msg = fmt.Sprintf("Cannot fast-forward Reminder %s: %s",
			id,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Status = true
	res.Message = succID

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleReminderFastForward(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleTagAdd(w http.ResponseWriter, r *http.Request) {
	d.handleTagCommand(w, r, "add", d.st.AddTag)
} // func (d *Daemon) handleTagAdd(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleTagRemove(w http.ResponseWriter, r *http.Request) {
	d.handleTagCommand(w, r, "remove", d.st.RemoveTag)
} // func (d *Daemon) handleTagRemove(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleTagGetAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(d.st.Tags()); err != nil {
		d.log.Printf("[ERROR] Cannot serialize tag index: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleTagGetAll(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleBadgeGet(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(map[string]int{"count": d.BadgeCount()}); err != nil {
		d.log.Printf("[ERROR] Cannot serialize badge count: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleBadgeGet(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleHistoryRecent(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err     error
		db      *database.Database
		entries []objects.HistoryEntry
		buf     []byte
		max     = defaultHistoryMax
	)

	if mstr := r.FormValue("max"); mstr != "" {
		var m int64
		if m, err = strconv.ParseInt(mstr, 10, 32); err != nil || m < 1 {
			d.log.Printf("[DEBUG] Ignoring bogus history limit %q\n",
				mstr)
		} else {
			max = int(m)
		}
	}

	db = d.pool.Get()
	defer d.pool.Put(db)

	if db == nil {
		d.log.Println("[ERROR] Cannot get database connection from pool")
	} else if entries, err = db.HistoryGetRecent(max); err != nil {
		d.log.Printf("[ERROR] Cannot load notification history: %s\n",
			err.Error())
	}

	if buf, err = ffjson.Marshal(entries); err != nil {
		d.log.Printf("[ERROR] Cannot serialize history: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleHistoryRecent(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleSettingsStartup(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err     error
		msg     string
		enabled bool
		res     = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	if enabled, err = strconv.ParseBool(r.PostFormValue("enabled")); err != nil {
		msg = fmt.Sprintf("Cannot parse flag %q: %s",
			r.PostFormValue("enabled"),
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	d.st.SetRunAtStartup(enabled)
	res.Status = true
	res.Message = "OK"

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleSettingsStartup(w http.ResponseWriter, r *http.Request)

//////////////////////////////////////////////////////////////////////////////////////////////////
/// Helpers //////////////////////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////////////////////////

// handleSimpleCommand covers the commands that take nothing but the
// Reminder's ID.
func (d *Daemon) handleSimpleCommand(w http.ResponseWriter, r *http.Request, verb string, cmd func(string) error) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err  error
		vars = mux.Vars(r)
		id   = vars["id"]
		res  = objects.Response{ID: d.getID()}
	)

	if err = cmd(id); err != nil {
		var msg = fmt.Sprintf("Cannot %s Reminder %s: %s",
			verb,
			id,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
	} else {
		res.Status = true
		res.Message = "OK"
	}

	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleSimpleCommand(w http.ResponseWriter, r *http.Request, verb string, cmd func(string) error)

func (d *Daemon) handleTagCommand(w http.ResponseWriter, r *http.Request, verb string, cmd func(string, string) error) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err  error
		msg  string
		tag  string
		vars = mux.Vars(r)
		id   = vars["id"]
		res  = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	tag = r.PostFormValue("tag")

	if err = cmd(id, tag); err != nil {
		msg = fmt.Sprintf("Cannot %s tag %q on Reminder %s: %s",
			verb,
			tag,
			id,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Status = true
	res.Message = "OK"

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleTagCommand(w http.ResponseWriter, r *http.Request, verb string, cmd func(string, string) error)

func (d *Daemon) sendListJSON(w http.ResponseWriter, reminders []objects.Reminder) {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(reminders); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Reminder list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) sendListJSON(w http.ResponseWriter, reminders []objects.Reminder)

func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response) {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(res); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Response object %#v: %s\n",
			res,
			err.Error())
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response)

// parseRepeat interprets a repeat rule from a form field: empty means
// leave alone, "none" means clear, anything else is a JSON-encoded
// Interval.
func parseRepeat(val string) (*repeat.Interval, bool, error) {
	if val == "" {
		return nil, false, nil
	} else if val == "none" {
		return nil, true, nil
	}

	var iv repeat.Interval

	if err := ffjson.Unmarshal([]byte(val), &iv); err != nil {
		return nil, false, err
	}

	return &iv, false, nil
} // func parseRepeat(val string) (*repeat.Interval, bool, error)
