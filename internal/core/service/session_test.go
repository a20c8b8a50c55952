package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/storage/memory"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

func TestSessionService_Load_Absent(t *testing.T) {
	svc := NewSessionService(memory.New(), discardLogger(), nil)

	st := svc.Load(context.Background())
	if st.Status != domain.SessionNone {
		t.Errorf("Status = %q, want %q", st.Status, domain.SessionNone)
	}
	if st.Err != nil || st.Record != nil {
		t.Errorf("absent session should carry no error or record: %+v", st)
	}
	if st.HasSession() {
		t.Error("HasSession() = true for absent record")
	}
}

func TestSessionService_Load_StoredNull(t *testing.T) {
	for _, raw := range []string{"null", " null\n"} {
		store := memory.New()
		_ = store.Set(context.Background(), domain.KeyUser, raw)
		svc := NewSessionService(store, discardLogger(), nil)

		st := svc.Load(context.Background())
		if st.Status != domain.SessionNone || st.Err != nil || st.Record != nil {
			t.Errorf("Load(%q) = %+v, want no session", raw, st)
		}
	}
}

func TestSessionService_Load_ValidRecord(t *testing.T) {
	records := []string{
		`{"id":"u-1","name":"Sam"}`,
		`{"id":"u-2","age":34,"weight":71.5,"goals":["strength","mobility"],"premium":true}`,
		`{}`,
		`{"profile":{"units":"metric","height":null}}`,
	}

	for _, raw := range records {
		t.Run(raw, func(t *testing.T) {
			store := memory.New()
			_ = store.Set(context.Background(), domain.KeyUser, raw)
			svc := NewSessionService(store, discardLogger(), nil)

			st := svc.Load(context.Background())
			if st.Status != domain.SessionActive {
				t.Fatalf("Status = %q, err = %v", st.Status, st.Err)
			}

			var want map[string]any
			dec := json.NewDecoder(stringsReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&want); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(map[string]any(st.Record), want) {
				t.Errorf("Record = %#v, want %#v", st.Record, want)
			}
		})
	}
}

func TestSessionService_Load_Malformed(t *testing.T) {
	for _, raw := range []string{`{"id":`, `null`, `[1,2]`, `"user"`, `{"a":1} trailing`} {
		t.Run(raw, func(t *testing.T) {
			store := memory.New()
			_ = store.Set(context.Background(), domain.KeyUser, raw)
			svc := NewSessionService(store, discardLogger(), nil)

			st := svc.Load(context.Background())
			if st.Status != domain.SessionInvalid {
				t.Errorf("Status = %q, want invalid", st.Status)
			}
			if !errors.Is(st.Err, domain.ErrSessionMalformed) {
				t.Errorf("Err = %v, want ErrSessionMalformed", st.Err)
			}
		})
	}
}

func TestSessionService_Load_StoreFailure(t *testing.T) {
	reg := metric.NewRegistry()
	svc := NewSessionService(failingStore{err: errDiskFull}, discardLogger(), reg)

	st := svc.Load(context.Background())
	if st.Status != domain.SessionUnavailable {
		t.Errorf("Status = %q, want unavailable", st.Status)
	}
	if !errors.Is(st.Err, domain.ErrStorage) || !errors.Is(st.Err, errDiskFull) {
		t.Errorf("Err = %v", st.Err)
	}
	if got := testutil.ToFloat64(reg.SessionLoads.WithLabelValues("unavailable")); got != 1 {
		t.Errorf("session loads{unavailable} = %v, want 1", got)
	}
}

func TestSessionReader_OneShot(t *testing.T) {
	store := &blockingStore{release: make(chan struct{}), value: `{"id":"u-1"}`}
	svc := NewSessionService(store, discardLogger(), nil)

	r := svc.Open(context.Background())
	if st := r.State(); st.Status != domain.SessionPending {
		t.Errorf("State() before completion = %q, want pending", st.Status)
	}

	close(store.release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := r.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if st.Status != domain.SessionActive || st.Record.String("id") != "u-1" {
		t.Errorf("Wait() = %+v", st)
	}

	select {
	case <-r.Done():
	default:
		t.Error("Done() not closed after Wait returned")
	}

	// The result is fixed; later store changes are not observed.
	store.value = `{"id":"u-2"}`
	if got := r.State().Record.String("id"); got != "u-1" {
		t.Errorf("State() re-fetched: id = %q", got)
	}
}

func TestSessionReader_WaitContext(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	svc := NewSessionService(store, discardLogger(), nil)

	r := svc.Open(context.Background())
	defer func() {
		r.Release()
		<-r.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestSessionReader_Release(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	svc := NewSessionService(store, discardLogger(), nil)

	r := svc.Open(context.Background())
	r.Release()

	st, err := r.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != domain.SessionUnavailable || !errors.Is(st.Err, context.Canceled) {
		t.Errorf("released read = %+v", st)
	}
}

func TestSessionService_SaveAndClear(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewSessionService(store, discardLogger(), nil)

	rec := domain.SessionRecord{"id": "u-7", "name": "Robin"}
	if err := svc.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	st := svc.Load(ctx)
	if st.Record.String("name") != "Robin" {
		t.Errorf("loaded record = %+v", st.Record)
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if st := svc.Load(ctx); st.Status != domain.SessionNone {
		t.Errorf("Status after Clear = %q", st.Status)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestSessionService_SaveRaw(t *testing.T) {
	svc := NewSessionService(memory.New(), discardLogger(), nil)
	ctx := context.Background()

	if err := svc.SaveRaw(ctx, `{"id":"u-3"}`); err != nil {
		t.Errorf("SaveRaw(valid) error = %v", err)
	}
	if err := svc.SaveRaw(ctx, `not json`); !errors.Is(err, domain.ErrSessionMalformed) {
		t.Errorf("SaveRaw(invalid) error = %v, want ErrSessionMalformed", err)
	}
	if err := svc.Save(ctx, nil); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Errorf("Save(nil) error = %v, want ErrSessionInvalid", err)
	}
}

func TestSessionService_SaveStoreFailure(t *testing.T) {
	svc := NewSessionService(failingStore{err: errDiskFull}, discardLogger(), nil)
	err := svc.Save(context.Background(), domain.SessionRecord{"id": "x"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Errorf("Save() error = %v, want ErrStorage", err)
	}
}
