package backup

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	memkv "github.com/Aastha-hs1d/JyotiPortal/storage/kv/memory"
)

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	store := memkv.Open()
	svc := NewService(store, &sync.Mutex{}, &sync.Mutex{}, &sync.Mutex{})

	b, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b.Students))
	assert.JSONEq(t, `[]`, string(b.Fees))
	assert.JSONEq(t, `[]`, string(b.Announcements))

	require.NoError(t, store.Set(ctx, core.KeyStudents, []byte(`[{"id":1,"name":"Asha"}]`)))
	require.NoError(t, store.Set(ctx, core.KeyFees, []byte(`{broken`)))
	require.NoError(t, store.Set(ctx, core.KeyTheme, []byte(`"teal"`)))

	b, err = svc.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Asha"}]`, string(b.Students))
	assert.JSONEq(t, `[]`, string(b.Fees))

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "teal")
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		bundle    string
		wantKeys  []string
		wantErr   bool
		wantStore map[string]string
	}{
		{
			name:     "full bundle",
			bundle:   `{"students": [{"id": 2}], "fees": [], "announcements": [{"id": 3}]}`,
			wantKeys: []string{core.KeyStudents, core.KeyFees, core.KeyAnnouncements},
			wantStore: map[string]string{
				core.KeyStudents:      `[{"id": 2}]`,
				core.KeyFees:          `[]`,
				core.KeyAnnouncements: `[{"id": 3}]`,
			},
		},
		{
			name:     "partial bundle leaves other keys alone",
			bundle:   `{"announcements": [], "fees": null}`,
			wantKeys: []string{core.KeyAnnouncements},
			wantStore: map[string]string{
				core.KeyStudents:      `[{"id": 1}]`,
				core.KeyFees:          `[{"studentId": 1, "records": []}]`,
				core.KeyAnnouncements: `[]`,
			},
		},
		{
			name:    "non list value writes nothing",
			bundle:  `{"students": [], "fees": {"1": []}}`,
			wantErr: true,
			wantStore: map[string]string{
				core.KeyStudents: `[{"id": 1}]`,
				core.KeyFees:     `[{"studentId": 1, "records": []}]`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memkv.Open()
			require.NoError(t, store.Set(ctx, core.KeyStudents, []byte(`[{"id": 1}]`)))
			require.NoError(t, store.Set(ctx, core.KeyFees, []byte(`[{"studentId": 1, "records": []}]`)))
			svc := NewService(store, &sync.Mutex{}, &sync.Mutex{}, &sync.Mutex{})

			var b Bundle
			require.NoError(t, json.Unmarshal([]byte(tt.bundle), &b))
			keys, err := svc.Import(ctx, b)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKeys, keys)
			}
			for key, want := range tt.wantStore {
				got, err := store.Get(ctx, key)
				require.NoError(t, err)
				assert.JSONEq(t, want, string(got), key)
			}
		})
	}
}

func TestService_Import_waitsForOwners(t *testing.T) {
	ctx := context.Background()
	store := memkv.Open()
	require.NoError(t, store.Set(ctx, core.KeyFees, []byte(`[{"studentId": 1, "records": []}]`)))

	var students, fees, announcements sync.Mutex
	svc := NewService(store, &students, &fees, &announcements)

	// a fee mutation in flight
	fees.Lock()
	done := make(chan error, 1)
	go func() {
		_, err := svc.Import(ctx, Bundle{Fees: json.RawMessage(`[]`)})
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("Import() returned while the fee ledger was locked: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	got, err := store.Get(ctx, core.KeyFees)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"studentId": 1, "records": []}]`, string(got))

	fees.Unlock()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Import() did not return after the fee ledger was released")
	}
	got, err = store.Get(ctx, core.KeyFees)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	// every lock is released again
	students.Lock()
	students.Unlock()
	announcements.Lock()
	announcements.Unlock()
}
