// Package log provides a small level-based logger for ccboard. Time/Date
// are omitted by default since most deployments run under a supervisor
// that timestamps stdout/stderr itself; SetLogDateTime(true) adds them back.
//
// Uses systemd syslog-style level prefixes:
// https://www.freedesktop.org/software/systemd/man/sd-daemon.html
package log

import (
	"fmt"
	"log"
	"os"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelNote
	levelWarn
	levelErr
	levelCrit
)

var levelNames = map[string]level{
	"debug": levelDebug,
	"info":  levelInfo,
	"notice": levelNote,
	"warn":  levelWarn,
	"err":   levelErr,
	"fatal": levelErr,
	"crit":  levelCrit,
}

var prefixes = map[level]string{
	levelDebug: "<7>[DEBUG]    ",
	levelInfo:  "<6>[INFO]     ",
	levelNote:  "<5>[NOTICE]   ",
	levelWarn:  "<4>[WARNING]  ",
	levelErr:   "<3>[ERROR]    ",
	levelCrit:  "<2>[CRITICAL] ",
}

var (
	minLevel    = levelDebug
	logDateTime bool
	loggers     = map[level]*log.Logger{}
)

func init() {
	rebuild()
}

func rebuild() {
	flags := 0
	if logDateTime {
		flags = log.LstdFlags
	}
	for lvl, prefix := range prefixes {
		extra := 0
		if lvl >= levelNote {
			extra = log.Lshortfile
		}
		if lvl >= levelErr {
			extra = log.Llongfile
		}
		loggers[lvl] = log.New(os.Stderr, prefix, flags|extra)
	}
}

// SetLogLevel sets the minimum level that will be emitted; anything below
// it is silently dropped. An unrecognized value falls back to "debug".
func SetLogLevel(lvl string) {
	l, ok := levelNames[lvl]
	if !ok {
		fmt.Printf("pkg/log: flag 'loglevel' has invalid value %#v, using 'debug'\n", lvl)
		l = levelDebug
	}
	minLevel = l
}

// SetLogDateTime toggles whether emitted lines carry a timestamp.
func SetLogDateTime(logdate bool) {
	logDateTime = logdate
	rebuild()
}

func emit(lvl level, out string) {
	if lvl < minLevel {
		return
	}
	loggers[lvl].Output(3, out)
}

func Print(v ...any) { Info(v...) }
func Debug(v ...any) { emit(levelDebug, fmt.Sprint(v...)) }
func Info(v ...any)  { emit(levelInfo, fmt.Sprint(v...)) }
func Note(v ...any)  { emit(levelNote, fmt.Sprint(v...)) }
func Warn(v ...any)  { emit(levelWarn, fmt.Sprint(v...)) }
func Error(v ...any) { emit(levelErr, fmt.Sprint(v...)) }
func Crit(v ...any)  { emit(levelCrit, fmt.Sprint(v...)) }

// Panic logs at error level then panics, preserving the stacktrace.
func Panic(v ...any) {
	Error(v...)
	panic("ccboard: panic triggered")
}

// Fatal logs at error level then exits the process.
func Fatal(v ...any) {
	Error(v...)
	os.Exit(1)
}

func Printf(format string, v ...any) { Infof(format, v...) }
func Debugf(format string, v ...any) { emit(levelDebug, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { emit(levelInfo, fmt.Sprintf(format, v...)) }
func Notef(format string, v ...any)  { emit(levelNote, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { emit(levelWarn, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { emit(levelErr, fmt.Sprintf(format, v...)) }
func Critf(format string, v ...any)  { emit(levelCrit, fmt.Sprintf(format, v...)) }

func Panicf(format string, v ...any) {
	Errorf(format, v...)
	panic("ccboard: panic triggered")
}

func Fatalf(format string, v ...any) {
	Errorf(format, v...)
	os.Exit(1)
}

// Abortf logs at critical level and exits, used for unrecoverable startup
// failures (the "Fatal" taxonomy entry of).
func Abortf(format string, v ...any) {
	Critf(format, v...)
	os.Exit(1)
}
