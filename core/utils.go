package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	idMu   sync.Mutex
	lastID int64

	// NowFunc returns the current time. mockable
	NowFunc = time.Now
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NextID returns a new clock-derived identifier (unix milliseconds).
// IDs are strictly increasing within the process, so an ID is never handed out twice,
// even when called more than once in the same millisecond.
func NextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := NowFunc().UnixNano() / int64(time.Millisecond)
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests,
// so we walk up from there. Falls back to the working directory when no go.mod is found (deployed binaries).
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
