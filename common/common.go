// /home/krylon/go/src/github.com/blicero/mnemosyne/common/common.go
// -*- mode: go; coding: utf-8; -*-
// Created on 03. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-02 19:48:51 krylon>

// Package common provides constants and shared values used throughout
// the application.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/blicero/krylib"
	"github.com/blicero/mnemosyne/logdomain"
	"github.com/hashicorp/logutils"
	uuid "github.com/odeke-em/go-uuid"
)

// Debug, if true, causes the application to log more verbosely and to
// check for Reminders more frequently.
const Debug = true

//nolint: gochecknoglobals
var (
	BaseDir      = filepath.Join(os.Getenv("HOME"), "mnemosyne.d")
	LogPath      = filepath.Join(BaseDir, "mnemosyne.log")
	DbPath       = filepath.Join(BaseDir, "history.db")
	DocumentPath = filepath.Join(BaseDir, "reminders.json")
)

// Application-level constants.
const (
	AppName                  = "Mnemosyne"
	Version                  = "0.2.1"
	TimestampFormat          = "2006-01-02 15:04:05"
	TimestampFormatMinute    = "2006-01-02 15:04"
	TimestampFormatSubSecond = "2006-01-02 15:04:05.0000 MST"
	TimestampFormatTime      = "15:04:05"
	TimestampFormatClock     = "15:04"
	TimestampFormatDate      = "2006-01-02"
	DefaultPort              = 5281
)

// SnoozeDelay is how far into the future a Reminder gets deferred when
// the user does not dismiss its notification.
const SnoozeDelay = time.Minute * 5

// CheckInterval is the interval at which the Scheduler looks for due
// Reminders.
func CheckInterval() time.Duration {
	if Debug {
		return time.Second * 10
	}

	return time.Minute
} // func CheckInterval() time.Duration

// BuildStamp is the time at which the application was built.
var BuildStamp = time.Date(2023, 6, 2, 19, 45, 0, 0, time.Local)

// LogLevels are the names of the log levels supported by the logger.
var LogLevels = []logutils.LogLevel{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
	"CRITICAL",
	"CANTHAPPEN",
	"SILENT",
}

// PackageLevels defines minimum log levels per package.
var PackageLevels = make(map[logdomain.ID]logutils.LogLevel, len(LogLevels))

func init() {
	var minLevel logutils.LogLevel = "INFO"
	if Debug {
		minLevel = "TRACE"
	}

	for _, id := range logdomain.AllDomains() {
		PackageLevels[id] = minLevel
	}
} // func init()

// SetBaseDir sets the BaseDir and related variables.
func SetBaseDir(path string) error {
	fmt.Printf("Setting BaseDir to %s\n", path)

	BaseDir = path
	LogPath = filepath.Join(BaseDir, "mnemosyne.log")
	DbPath = filepath.Join(BaseDir, "history.db")
	DocumentPath = filepath.Join(BaseDir, "reminders.json")

	if err := InitApp(); err != nil {
		fmt.Printf("Error initializing application environment: %s\n",
			err.Error())
		return err
	}

	return nil
} // func SetBaseDir(path string) error

// GetLogger tries to create a Logger for the given log domain.
func GetLogger(dom logdomain.ID) (*log.Logger, error) {
	var (
		err  error
		name = fmt.Sprintf("%s.%s ",
			AppName,
			dom)
	)

	if err = InitApp(); err != nil {
		return nil, fmt.Errorf("Error initializing application environment: %s",
			err.Error())
	}

	var logfile *os.File

	if logfile, err = os.OpenFile(LogPath, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644); err != nil {
		var msg = fmt.Sprintf("Error opening log file: %s",
			err.Error())
		fmt.Println(msg)
		return nil, fmt.Errorf("%s", msg)
	}

	var writer = io.MultiWriter(os.Stdout, logfile)

	var filter = &logutils.LevelFilter{
		Levels:   LogLevels,
		MinLevel: PackageLevels[dom],
		Writer:   writer,
	}

	var logger = log.New(filter, name, log.Ldate|log.Ltime|log.Lshortfile)

	return logger, nil
} // func GetLogger(dom logdomain.ID) (*log.Logger, error)

// InitApp performs some basic preparations for the application to run.
// Currently, this means creating the BaseDir, if it does not exist.
func InitApp() error {
	var (
		err   error
		exist bool
	)

	if exist, err = krylib.Fexists(BaseDir); err != nil {
		return fmt.Errorf("Error checking BaseDir %s: %s",
			BaseDir,
			err.Error())
	} else if !exist {
		if err = os.MkdirAll(BaseDir, 0755); err != nil {
			return fmt.Errorf("Error creating BaseDir %s: %s",
				BaseDir,
				err.Error())
		}
	}

	return nil
} // func InitApp() error

// GetUUID returns a randomized UUID as a string.
func GetUUID() string {
	return uuid.NewRandom().String()
} // func GetUUID() string

// TimeEqualMinute compares two timestamps with a granularity of one
// minute.
func TimeEqualMinute(t1, t2 time.Time) bool {
	return t1.Truncate(time.Minute).Equal(t2.Truncate(time.Minute))
} // func TimeEqualMinute(t1, t2 time.Time) bool
