// Package testhelpers provides shared fakes and fixtures for review-responder tests.
package testhelpers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
)

// ErrScriptExhausted is returned when a MockDraftGenerator runs out of replies.
var ErrScriptExhausted = errors.New("mock generator: no scripted reply left")

// MockDraftGenerator returns scripted replies in order and records every request.
type MockDraftGenerator struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []capability.GenerateRequest
	version  string
}

// NewMockDraftGenerator creates a generator that returns replies in order.
func NewMockDraftGenerator(replies ...string) *MockDraftGenerator {
	return &MockDraftGenerator{replies: replies}
}

// NewFailingDraftGenerator creates a generator whose every call fails with err.
func NewFailingDraftGenerator(err error) *MockDraftGenerator {
	return &MockDraftGenerator{err: err}
}

// WithArtifactVersion sets the fingerprint reported by ArtifactVersion.
func (m *MockDraftGenerator) WithArtifactVersion(v string) *MockDraftGenerator {
	m.version = v
	return m
}

// Generate returns the next scripted reply. The last reply repeats once the
// script is exhausted.
func (m *MockDraftGenerator) Generate(_ context.Context, req capability.GenerateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", ErrScriptExhausted
	}
	idx := min(len(m.requests)-1, len(m.replies)-1)
	return m.replies[idx], nil
}

// Requests returns a copy of the recorded requests.
func (m *MockDraftGenerator) Requests() []capability.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]capability.GenerateRequest(nil), m.requests...)
}

// ArtifactVersion implements capability.Fingerprinted.
func (m *MockDraftGenerator) ArtifactVersion() string {
	return m.version
}

// MockComplianceVerifier returns a fixed raw verdict.
type MockComplianceVerifier struct {
	mu       sync.Mutex
	raw      json.RawMessage
	err      error
	requests []capability.VerifyRequest
}

// NewMockComplianceVerifier creates a verifier returning raw for every call.
func NewMockComplianceVerifier(raw string) *MockComplianceVerifier {
	return &MockComplianceVerifier{raw: json.RawMessage(raw)}
}

// NewPassingVerifier returns a verifier that always passes with no violations.
func NewPassingVerifier() *MockComplianceVerifier {
	return NewMockComplianceVerifier(`{"pass":true,"violations":[],"suggestedRewrite":""}`)
}

// NewFailingVerifier creates a verifier whose every call fails with err.
func NewFailingVerifier(err error) *MockComplianceVerifier {
	return &MockComplianceVerifier{err: err}
}

// Verify records the request and returns the configured verdict.
func (m *MockComplianceVerifier) Verify(_ context.Context, req capability.VerifyRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

// Requests returns a copy of the recorded requests.
func (m *MockComplianceVerifier) Requests() []capability.VerifyRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]capability.VerifyRequest(nil), m.requests...)
}

// MockHistoryRecorder keeps process records in memory.
type MockHistoryRecorder struct {
	mu      sync.Mutex
	records []domain.ProcessRecord
	err     error
}

// NewMockHistoryRecorder creates an empty recorder. A non-nil err makes every
// Record call fail.
func NewMockHistoryRecorder(err error) *MockHistoryRecorder {
	return &MockHistoryRecorder{err: err}
}

// Record stores rec unless the recorder was built to fail.
func (m *MockHistoryRecorder) Record(_ context.Context, rec *domain.ProcessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *rec)
	return nil
}

// ListByReview returns stored records for reviewID, newest first.
func (m *MockHistoryRecorder) ListByReview(_ context.Context, reviewID string, limit int) ([]domain.ProcessRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ProcessRecord, 0)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].ReviewID == reviewID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// Records returns a copy of every stored record.
func (m *MockHistoryRecorder) Records() []domain.ProcessRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ProcessRecord(nil), m.records...)
}
