package store

import (
	"context"
	"sync"

	"hireline/internal/report/models"
)

// MemoryEmployerRefStore is an in-memory EmployerRefStore for tests.
type MemoryEmployerRefStore struct {
	mu   sync.Mutex
	refs []models.EmployerRef

	// FailNext makes the next Save return this error, for exercising the
	// abort path of the write sequence.
	FailNext error
}

func NewMemoryEmployerRefStore() *MemoryEmployerRefStore {
	return &MemoryEmployerRefStore{}
}

func (m *MemoryEmployerRefStore) Save(_ context.Context, ref models.EmployerRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.refs = append(m.refs, ref)
	return nil
}

// All returns the saved refs in insertion order.
func (m *MemoryEmployerRefStore) All() []models.EmployerRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.EmployerRef, len(m.refs))
	copy(out, m.refs)
	return out
}

// MemoryReportStore is an in-memory ReportStore for tests.
type MemoryReportStore struct {
	mu      sync.Mutex
	reports []models.Report

	FailNext error
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{}
}

func (m *MemoryReportStore) Save(_ context.Context, report models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *MemoryReportStore) All() []models.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Report, len(m.reports))
	copy(out, m.reports)
	return out
}

// MemoryContactStore is an in-memory ContactStore for tests.
type MemoryContactStore struct {
	mu       sync.Mutex
	contacts []models.Contact

	FailNext error
}

func NewMemoryContactStore() *MemoryContactStore {
	return &MemoryContactStore{}
}

func (m *MemoryContactStore) Save(_ context.Context, contact models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.contacts = append(m.contacts, contact)
	return nil
}

func (m *MemoryContactStore) All() []models.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Contact, len(m.contacts))
	copy(out, m.contacts)
	return out
}

// MemoryExperienceStore is an in-memory ExperienceStore for tests.
type MemoryExperienceStore struct {
	mu   sync.Mutex
	exps []models.Experience

	FailNext error
}

func NewMemoryExperienceStore() *MemoryExperienceStore {
	return &MemoryExperienceStore{}
}

func (m *MemoryExperienceStore) Save(_ context.Context, exp models.Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.exps = append(m.exps, exp)
	return nil
}

func (m *MemoryExperienceStore) All() []models.Experience {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Experience, len(m.exps))
	copy(out, m.exps)
	return out
}
