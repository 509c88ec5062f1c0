package core

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

// Storage keys. They mirror the keys used by the browser dashboard so its exported data can be loaded as is.
const (
	KeyStudents           = "students"
	KeyFees               = "fees"
	KeyAttendance         = "attendance"
	KeyAttendanceHistory  = "attendanceHistory"
	KeyAttendanceLastDate = "attendanceLastDate"
	KeyAnnouncements      = "announcements"
	KeySavedTests         = "savedTests"
	KeyTheme              = "theme"
	KeyDarkMode           = "darkMode"
	KeyFontSize           = "fontSize"
	KeySoundEnabled       = "soundEnabled"
)

// ErrKeyNotFound is returned by a KVStore when nothing is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the persistence port: a flat key-value store holding one JSON snapshot per key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LoadJSON decodes the snapshot stored under key into dst.
// A missing key leaves dst untouched and is not an error.
// A malformed value is reported through logger and resets dst to its zero value,
// so callers end up with an empty collection rather than a failure.
func LoadJSON(ctx context.Context, store KVStore, logger Logger, key string, dst interface{}) error {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return nil
		}
		return errors.Wrapf(err, "reading %q", key)
	}
	if len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, dst); err != nil {
		// drop whatever got partially decoded
		if rv := reflect.ValueOf(dst); rv.Kind() == reflect.Ptr && !rv.IsNil() {
			rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
		}
		if logger != nil {
			logger.Warn("discarding malformed snapshot", Fields{"key": key, "error": err.Error()})
		}
		return nil
	}
	return nil
}

// SaveJSON encodes src and writes it under key as a full snapshot.
func SaveJSON(ctx context.Context, store KVStore, key string, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	if err = store.Set(ctx, key, data); err != nil {
		return errors.Wrapf(err, "writing %q", key)
	}
	return nil
}
