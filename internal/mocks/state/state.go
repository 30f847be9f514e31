package state

// Package state contains simple hand-written test doubles for the state
// store and navigator ports. These are lightweight and suitable for unit
// tests without codegen.

import (
	"context"
	"sync"

	"github.com/cafetec/cafetec-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.StateStore = (*MemoryStore)(nil)
	_ ports.Navigator  = (*RecordingNavigator)(nil)
)

// MemoryStore is an in-memory StateStore. Optional per-operation error hooks
// let tests simulate storage failures.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	GetErr    error
	SetErr    error
	RemoveErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Seed sets a value without going through the error hooks.
func (m *MemoryStore) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ports.ErrStateNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// NavEvent is one recorded navigation.
type NavEvent struct {
	Route   ports.Route
	Replace bool
}

// RecordingNavigator records navigations for assertions.
type RecordingNavigator struct {
	mu     sync.Mutex
	events []NavEvent
}

// NewRecordingNavigator creates an empty recorder.
func NewRecordingNavigator() *RecordingNavigator {
	return &RecordingNavigator{}
}

func (n *RecordingNavigator) Push(route ports.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, NavEvent{Route: route})
}

func (n *RecordingNavigator) Replace(route ports.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, NavEvent{Route: route, Replace: true})
}

// Events returns a copy of the recorded navigations.
func (n *RecordingNavigator) Events() []NavEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]NavEvent(nil), n.events...)
}
