package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Bundle is a backup of the students, fee ledgers and announcements, each as stored.
type Bundle struct {
	Students      json.RawMessage `json:"students,omitempty"`
	Fees          json.RawMessage `json:"fees,omitempty"`
	Announcements json.RawMessage `json:"announcements,omitempty"`
}

// keys lists the backed up keys in the order their locks are taken.
var keys = []string{core.KeyStudents, core.KeyFees, core.KeyAnnouncements}

func (b Bundle) entries() []entry {
	return []entry{
		{core.KeyStudents, b.Students},
		{core.KeyFees, b.Fees},
		{core.KeyAnnouncements, b.Announcements},
	}
}

type entry struct {
	key   string
	value json.RawMessage
}

var emptyList = json.RawMessage("[]")

// Service reads and replaces the stored snapshots while holding the locks of the services owning them,
// so an import is never interleaved with a load-modify-save of the same key.
type Service struct {
	store core.KVStore
	locks map[string]sync.Locker
}

func NewService(store core.KVStore, students, fees, announcements sync.Locker) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(store, "store"),
		vala.IsNotNil(students, "students"),
		vala.IsNotNil(fees, "fees"),
		vala.IsNotNil(announcements, "announcements"),
	).CheckAndPanic()
	return &Service{
		store: store,
		locks: map[string]sync.Locker{
			core.KeyStudents:      students,
			core.KeyFees:          fees,
			core.KeyAnnouncements: announcements,
		},
	}
}

// lockAll takes every owner lock in a fixed order and returns the function releasing them.
func (svc *Service) lockAll() func() {
	for _, key := range keys {
		svc.locks[key].Lock()
	}
	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			svc.locks[keys[i]].Unlock()
		}
	}
}

// Export reads the backed up keys as they are stored. Missing keys export as empty lists.
func (svc *Service) Export(ctx context.Context) (Bundle, error) {
	read := func(key string) (json.RawMessage, error) {
		data, err := svc.store.Get(ctx, key)
		if err != nil {
			if errors.Cause(err) == core.ErrKeyNotFound {
				return emptyList, nil
			}
			return nil, errors.Wrapf(err, "reading %q", key)
		}
		if !json.Valid(data) {
			return emptyList, nil
		}
		return json.RawMessage(data), nil
	}

	defer svc.lockAll()()

	var (
		b   Bundle
		err error
	)
	if b.Students, err = read(core.KeyStudents); err != nil {
		return Bundle{}, err
	}
	if b.Fees, err = read(core.KeyFees); err != nil {
		return Bundle{}, err
	}
	if b.Announcements, err = read(core.KeyAnnouncements); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// Import overwrites every key present in b with its value. Values are not merged with what is stored.
// Nothing is written unless every present value is a JSON array.
func (svc *Service) Import(ctx context.Context, b Bundle) ([]string, error) {
	var (
		fldErrs []core.FieldError
		toWrite []entry
	)
	for _, e := range b.entries() {
		value := bytes.TrimSpace(e.value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}
		if !json.Valid(value) || value[0] != '[' {
			fldErrs = append(fldErrs, core.FieldError{Field: e.key, Error: "expected a JSON array"})
			continue
		}
		toWrite = append(toWrite, entry{e.key, value})
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(nil, fldErrs...)
	}

	defer svc.lockAll()()

	imported := make([]string, 0, len(toWrite))
	for _, e := range toWrite {
		if err := svc.store.Set(ctx, e.key, e.value); err != nil {
			return imported, errors.Wrapf(err, "writing %q", e.key)
		}
		imported = append(imported, e.key)
	}
	return imported, nil
}
