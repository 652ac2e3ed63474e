package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogDir is the directory, relative to the working directory, that holds every
// file the tool writes.
const LogDir = "logs"

const debugLogName = "fridamgr.log"

var (
	logFile  *os.File
	logOnce  sync.Once
	logMutex sync.Mutex
)

// openDebugLog opens the diagnostic log lazily. A failure leaves logFile nil and
// diagnostics are dropped; the tool must keep working from read-only directories.
func openDebugLog() {
	if err := os.MkdirAll(LogDir, 0755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(LogDir, debugLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	logFile = f
}

func log(level, msg string) {
	logOnce.Do(openDebugLog)
	logMutex.Lock()
	defer logMutex.Unlock()
	if logFile == nil {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(logFile, "%s [%s] %s\n", timestamp, level, msg)
	logFile.Sync()
}

func LogDebug(format string, args ...interface{}) {
	log("DEBUG", fmt.Sprintf(format, args...))
}

func LogError(format string, args ...interface{}) {
	log("ERROR", fmt.Sprintf(format, args...))
}
