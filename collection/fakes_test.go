package collection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/turbot/tailpipe-file-ingest/events"
	"github.com/turbot/tailpipe-file-ingest/schema"
	"github.com/turbot/tailpipe-file-ingest/types"
)

type memObject struct {
	info *types.ObjectInfo
	data []byte
}

// memSource is an in-memory object store which lists in insertion order
type memSource struct {
	objects []memObject
	opened  []string
}

func (m *memSource) add(key string, modified time.Time, data []byte) {
	m.objects = append(m.objects, memObject{info: types.NewObjectInfo(key, modified, int64(len(data))), data: data})
}

func (m *memSource) Identifier() string { return "memory" }
func (m *memSource) Location() string   { return "test-bucket" }
func (m *memSource) Close() error       { return nil }

func (m *memSource) List(_ context.Context, _ string, _ bool, fn func(*types.ObjectInfo) error) error {
	for _, o := range m.objects {
		if err := fn(o.info); err != nil {
			return err
		}
	}
	return nil
}

func (m *memSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	for _, o := range m.objects {
		if o.info.Key == key {
			m.opened = append(m.opened, key)
			return io.NopCloser(bytes.NewReader(o.data)), nil
		}
	}
	return nil, fmt.Errorf("object %s not found", key)
}

type memStore struct {
	mut       sync.Mutex
	bookmarks map[string]time.Time
	history   []time.Time
}

func newMemStore() *memStore {
	return &memStore{bookmarks: make(map[string]time.Time)}
}

func (m *memStore) Get(_ context.Context, table string) (time.Time, bool, error) {
	m.mut.Lock()
	defer m.mut.Unlock()
	t, ok := m.bookmarks[table]
	return t, ok, nil
}

func (m *memStore) Set(_ context.Context, table string, t time.Time) error {
	m.mut.Lock()
	defer m.mut.Unlock()
	m.bookmarks[table] = t
	m.history = append(m.history, t)
	return nil
}

func (m *memStore) Close() error { return nil }

type memSink struct {
	batches [][]schema.Record
	failOn  int
}

func (m *memSink) Identifier() string { return "memory" }

func (m *memSink) Emit(_ context.Context, _ string, records []schema.Record) error {
	if m.failOn > 0 && len(m.batches)+1 == m.failOn {
		return errors.New("sink unavailable")
	}
	m.batches = append(m.batches, records)
	return nil
}

func (m *memSink) Close() error { return nil }

func (m *memSink) records() []schema.Record {
	var res []schema.Record
	for _, b := range m.batches {
		res = append(res, b...)
	}
	return res
}

func (m *memSink) batchSizes() []int {
	var res []int
	for _, b := range m.batches {
		res = append(res, len(b))
	}
	return res
}

type recordingObserver struct {
	events []events.Event
}

func (r *recordingObserver) Notify(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingObserver) skipped() []string {
	var res []string
	for _, e := range r.events {
		if s, ok := e.(*events.ObjectSkipped); ok {
			res = append(res, s.Name)
		}
	}
	return res
}
