package utils

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// ANSI colour codes — make terminal output easier to read while debugging
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

var (
	logMu   sync.Mutex
	logFile *os.File
)

// SetLogFile tees every log line (without colour codes) into path,
// appending across runs. Call once at startup; failure is non-fatal.
func SetLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	logMu.Lock()
	logFile = f
	logMu.Unlock()
	return nil
}

func ts() string {
	return time.Now().Format("15:04:05")
}

func emit(colour, level, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s[%s] %s %s%s\n", colour, ts(), level, msg, reset)

	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		fmt.Fprintf(logFile, "[%s] %s %s\n", time.Now().Format("2006-01-02 15:04:05"), level, msg)
	}
}

func Info(format string, a ...interface{}) {
	emit(blue, "[INFO] ", format, a...)
}

func Success(format string, a ...interface{}) {
	emit(green, "[OK]   ", format, a...)
}

func Warn(format string, a ...interface{}) {
	emit(yellow, "[WARN] ", format, a...)
}

func Error(format string, a ...interface{}) {
	emit(red, "[ERROR]", format, a...)
}

func Section(title string) {
	emit(cyan, "══════ ", "%s ══════", title)
}
