package command

import (
	"sort"

	"k8s.io/klog/v2"

	"github.com/keyspace-io/jsondoc/document"
	"github.com/keyspace-io/jsondoc/format"
)

// Keyspace is the slice of the host the engine needs: document lookup
// by key. The host serialises all access; implementations need no
// internal locking.
type Keyspace interface {
	Get(key string) (*document.Document, bool)
	Put(key string, d *document.Document)
	Delete(key string) bool
	Keys() []string
}

// Notifier receives keyspace events. Events are published after a
// mutation commits and before the command returns.
type Notifier interface {
	Notify(event, key string)
}

// LogNotifier publishes events to the structured log only.
type LogNotifier struct{}

func (LogNotifier) Notify(event, key string) {
	klog.V(3).InfoS("keyspace event", "event", event, "key", key)
}

// MemoryKeyspace is the in-memory keyspace used by tests and the CLI
// shell.
type MemoryKeyspace struct {
	docs map[string]*document.Document
}

func NewMemoryKeyspace() *MemoryKeyspace {
	return &MemoryKeyspace{docs: map[string]*document.Document{}}
}

func (m *MemoryKeyspace) Get(key string) (*document.Document, bool) {
	d, ok := m.docs[key]
	return d, ok
}

func (m *MemoryKeyspace) Put(key string, d *document.Document) {
	m.docs[key] = d
}

func (m *MemoryKeyspace) Delete(key string) bool {
	if _, ok := m.docs[key]; !ok {
		return false
	}
	delete(m.docs, key)
	return true
}

func (m *MemoryKeyspace) Keys() []string {
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot writes every document to the stream in the current snapshot
// version, key-prefixed, in sorted key order.
func (m *MemoryKeyspace) Snapshot(w format.SnapshotWriter) error {
	keys := m.Keys()
	if err := w.WriteUnsigned(uint64(len(keys))); err != nil {
		return format.IoError{Op: "save", Err: err}
	}
	for _, k := range keys {
		if err := w.WriteStringBuffer([]byte(k)); err != nil {
			return format.IoError{Op: "save", Err: err}
		}
		if err := format.SaveValue(w, m.docs[k].Root()); err != nil {
			return err
		}
	}
	return nil
}

// Restore loads a keyspace snapshot written by Snapshot, or an older
// per-value encoding identified by version.
func (m *MemoryKeyspace) Restore(r format.SnapshotReader, version int) error {
	count, err := r.ReadUnsigned()
	if err != nil {
		return format.IoError{Op: "load", Err: err}
	}
	for i := uint64(0); i < count; i++ {
		key, err := r.ReadStringBuffer()
		if err != nil {
			return format.IoError{Op: "load", Err: err}
		}
		root, err := format.LoadValue(r, version)
		if err != nil {
			return err
		}
		m.docs[string(key)] = document.New(root)
	}
	return nil
}
