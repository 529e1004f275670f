// /home/krylon/go/src/github.com/blicero/mnemosyne/database/pool.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-03 15:02:54 krylon>

package database

import (
	"sync"

	"github.com/blicero/mnemosyne/common"
)

// Pool is a pool of database connections. The web handlers run
// concurrently, and a Database is not safe for concurrent use, so each
// handler borrows a connection and returns it when done.
type Pool struct {
	lock sync.Mutex
	pool []*Database
}

// NewPool opens a Pool with the given number of initial connections.
func NewPool(cnt int) (*Pool, error) {
	var p = &Pool{
		pool: make([]*Database, 0, cnt),
	}

	for i := 0; i < cnt; i++ {
		var (
			err error
			db  *Database
		)

		if db, err = Open(common.DbPath); err != nil {
			for _, c := range p.pool {
				c.Close() // nolint: errcheck
			}
			return nil, err
		}

		p.pool = append(p.pool, db)
	}

	return p, nil
} // func NewPool(cnt int) (*Pool, error)

// Get returns a connection from the Pool. If the Pool is empty, a
// fresh connection is opened; should that fail, Get returns nil, which
// Put tolerates.
func (p *Pool) Get() *Database {
	p.lock.Lock()

	if n := len(p.pool); n > 0 {
		var db = p.pool[n-1]
		p.pool = p.pool[:n-1]
		p.lock.Unlock()
		return db
	}

	p.lock.Unlock()

	var (
		err error
		db  *Database
	)

	if db, err = Open(common.DbPath); err != nil {
		return nil
	}

	return db
} // func (p *Pool) Get() *Database

// Put returns a connection to the Pool.
func (p *Pool) Put(db *Database) {
	if db == nil {
		return
	}

	p.lock.Lock()
	p.pool = append(p.pool, db)
	p.lock.Unlock()
} // func (p *Pool) Put(db *Database)

// Close closes all connections currently in the Pool. Connections that
// are checked out are the borrower's problem.
func (p *Pool) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	var err error

	for _, db := range p.pool {
		if e := db.Close(); e != nil && err == nil {
			err = e
		}
	}

	p.pool = p.pool[:0]
	return err
} // func (p *Pool) Close() error
