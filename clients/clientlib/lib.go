// /home/krylon/go/src/github.com/blicero/mnemosyne/clients/clientlib/lib.go
// -*- mode: go; coding: utf-8; -*-
// Created on 27. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-05 21:40:19 krylon>

// Package clientlib provides the basic framework for building clients
// that talk to the daemon's HTTP API.
package clientlib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/blicero/mnemosyne/common"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/blicero/mnemosyne/objects"
	"github.com/pquerna/ffjson/ffjson"
)

const (
	addPath     = "/reminder/add"
	pendingPath = "/reminder/pending"
)

// Client implements the fundamental communication with the daemon.
type Client struct {
	Server *url.URL
	Client http.Client
	log    *log.Logger
}

// NewClient creates a new Client talking to the given server address.
func NewClient(srv string) (*Client, error) {
	var (
		err error
		c   = &Client{
			Client: http.Client{
				Timeout: time.Second * 10,
			},
		}
	)

	if c.log, err = common.GetLogger(logdomain.Client); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create Logger: %s\n",
			err.Error())
		return nil, err
	} else if c.Server, err = url.Parse(srv); err != nil {
		c.log.Printf("[ERROR] Cannot parse URL %q: %s\n",
			srv,
			err.Error())
		return nil, err
	}

	c.Server.Scheme = "http"

	return c, nil
} // func NewClient(srv string) (*Client, error)

// GetLogger returns the Client's logger, for the benefit of the
// programs built on top of it.
func (c *Client) GetLogger() *log.Logger {
	return c.log
} // func (c *Client) GetLogger() *log.Logger

func (c *Client) mkURL(path string) string {
	var u = *c.Server
	u.Path = path
	return u.String()
} // func (c *Client) mkURL(path string) string

// SubmitReminder creates a new Reminder on the daemon. On success it
// returns the ID the daemon assigned.
func (c *Client) SubmitReminder(r *objects.Reminder) (string, error) {
	var (
		err     error
		sendBuf []byte
		msg     string
		rcvBuf  bytes.Buffer
		hres    *http.Response
		ores    objects.Response
		addr    = c.mkURL(addPath)
		values  = make(url.Values)
	)

	if sendBuf, err = ffjson.Marshal(r); err != nil {
		c.log.Printf("[ERROR] Cannot serialize Reminder: %s\n",
			err.Error())
		return "", err
	}

	defer ffjson.Pool(sendBuf)

	values["reminder"] = []string{string(sendBuf)}

	if hres, err = c.Client.PostForm(addr, values); err != nil {
		c.log.Printf("[ERROR] Failed to POST Reminder to %s: %s\n",
			addr,
			err.Error())
		return "", err
	} else if hres.StatusCode != http.StatusOK {
		msg = fmt.Sprintf("Unexpected status from %s: %s",
			addr,
			hres.Status)
		c.log.Printf("[ERROR] %s\n", msg)
		return "", errors.New(msg)
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read Response body from %s: %s\n",
			addr,
			err.Error())
		return "", err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &ores); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize Response from %s: %s\n",
			addr,
			err.Error())
		return "", err
	} else if !ores.Status {
		err = fmt.Errorf("Request to %s failed: %s",
			addr,
			ores.Message)
		c.log.Printf("[ERROR] %s\n",
			err.Error())
		return "", err
	}

	c.log.Printf("[DEBUG] Reminder was created as %s\n",
		ores.Message)

	return ores.Message, nil
} // func (c *Client) SubmitReminder(r *objects.Reminder) (string, error)

// FetchPending asks the daemon for all active Reminders.
func (c *Client) FetchPending() ([]objects.Reminder, error) {
	var (
		err       error
		rcvBuf    bytes.Buffer
		hres      *http.Response
		reminders []objects.Reminder
		addr      = c.mkURL(pendingPath)
	)

	if hres, err = c.Client.Get(addr); err != nil {
		c.log.Printf("[ERROR] Failed to GET pending Reminders from %s: %s\n",
			addr,
			err.Error())
		return nil, err
	} else if hres.StatusCode != http.StatusOK {
		err = fmt.Errorf("Unexpected status from %s: %s",
			addr,
			hres.Status)
		c.log.Printf("[ERROR] %s\n", err.Error())
		return nil, err
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read Response body from %s: %s\n",
			addr,
			err.Error())
		return nil, err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &reminders); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize Reminder list from %s: %s\n",
			addr,
			err.Error())
		return nil, err
	}

	return reminders, nil
} // func (c *Client) FetchPending() ([]objects.Reminder, error)
