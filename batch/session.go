// Package batch holds extracted records for review between ingestion and
// a single bulk commit to the inventory collaborator.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers       = 4
	defaultCommitTimeout = 30 * time.Second
)

// Status is the review state of a batch item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Document is one raw input page.
type Document struct {
	Source  string
	Content []byte
}

// Item is a record under review. ID, Source and Status are bookkeeping and
// never reach the collaborator.
type Item struct {
	ID     string
	Source string
	Status Status
	Record core.ProductRecord
}

// LogEntry is a per-document ingestion failure.
type LogEntry struct {
	Source string
	Err    error
}

func (e LogEntry) String() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Progress is reported once per document as soon as it finishes.
type Progress struct {
	Source string
	Done   int
	Total  int
	Err    error
}

// AddSummary counts the outcome of one Add call.
type AddSummary struct {
	Added  int
	Failed int
}

// Counts is a snapshot of item states.
type Counts struct {
	Pending  int
	Rejected int
}

// CommitResult describes a successful commit.
type CommitResult struct {
	Created  int
	Accepted []Item
}

// Processor turns one raw document into a record.
type Processor interface {
	Process(raw []byte) (*core.ProductRecord, error)
}

// Session is a single-owner review batch. Its methods are serialized by a
// mutex but it is not meant to be shared between independent callers.
type Session struct {
	mu sync.Mutex

	processor     Processor
	persister     core.Persister
	items         []*Item
	log           []LogEntry
	workers       int
	commitTimeout time.Duration
	progress      func(Progress)
	logger        *logrus.Logger
}

// Option configures a Session.
type Option func(*Session)

// NewSession creates an empty session.
func NewSession(processor Processor, persister core.Persister, opts ...Option) *Session {
	s := &Session{
		processor:     processor,
		persister:     persister,
		workers:       defaultWorkers,
		commitTimeout: defaultCommitTimeout,
		logger:        logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers bounds how many documents are processed at once.
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCommitTimeout bounds the bulk create call.
func WithCommitTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.commitTimeout = d
		}
	}
}

// WithProgress registers a callback invoked as each document finishes.
// Calls are serialized.
func WithProgress(fn func(Progress)) Option {
	return func(s *Session) {
		s.progress = fn
	}
}

type outcome struct {
	rec *core.ProductRecord
	err error
}

// Add processes docs concurrently. Successes are appended as pending in
// input order; failures go to the batch log. One bad document never stops
// the others.
func (s *Session) Add(docs []Document) AddSummary {
	outcomes := make([]outcome, len(docs))

	var (
		g          errgroup.Group
		progressMu sync.Mutex
		done       int
	)
	g.SetLimit(s.workers)
	for i, doc := range docs {
		g.Go(func() error {
			rec, err := s.processor.Process(doc.Content)
			outcomes[i] = outcome{rec: rec, err: err}

			progressMu.Lock()
			done++
			if s.progress != nil {
				s.progress(Progress{Source: doc.Source, Done: done, Total: len(docs), Err: err})
			}
			progressMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	var summary AddSummary
	for i, o := range outcomes {
		source := docs[i].Source
		if o.err != nil {
			summary.Failed++
			s.log = append(s.log, LogEntry{Source: source, Err: o.err})
			s.logger.WithError(o.err).WithField("source", source).Warn("Document rejected")
			continue
		}
		summary.Added++
		s.items = append(s.items, &Item{
			ID:     uuid.NewString(),
			Source: source,
			Status: StatusPending,
			Record: *o.rec,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"added":  summary.Added,
		"failed": summary.Failed,
	}).Info("Batch updated")
	return summary
}

// Edit applies patches to the pending item at index. The item changes only
// if every patch succeeds and the result still has an identity.
func (s *Session) Edit(index int, patches ...Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.at(index)
	if err != nil {
		return err
	}
	if item.Status != StatusPending {
		return fmt.Errorf("editing item %d: %w", index, ErrNotPending)
	}

	rec := item.Record.Clone()
	for _, patch := range patches {
		if err := patch(rec); err != nil {
			return fmt.Errorf("editing item %d: %w", index, err)
		}
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("editing item %d: %w", index, err)
	}
	item.Record = *rec
	return nil
}

// Remove drops the item at index.
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.at(index); err != nil {
		return err
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// Reject excludes a pending item from the next commit.
func (s *Session) Reject(index int) error {
	return s.transition(index, StatusPending, StatusRejected, ErrNotPending)
}

// Restore returns a rejected item to pending.
func (s *Session) Restore(index int) error {
	return s.transition(index, StatusRejected, StatusPending, ErrNotRejected)
}

func (s *Session) transition(index int, from, to Status, wrong error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.at(index)
	if err != nil {
		return err
	}
	if item.Status != from {
		return fmt.Errorf("item %d: %w", index, wrong)
	}
	item.Status = to
	return nil
}

// Commit sends every pending record to the persister in one call. On
// success the session is cleared; on any failure it is left untouched and
// a *CommitError is returned.
func (s *Session) Commit(ctx context.Context) (*CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		records []core.ProductRecord
		pending []*Item
	)
	for _, item := range s.items {
		if item.Status != StatusPending {
			continue
		}
		records = append(records, *item.Record.Clone())
		pending = append(pending, item)
	}
	if len(records) == 0 {
		return nil, ErrNothingToCommit
	}

	ctx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()

	logger := s.logger.WithField("records", len(records))
	logger.Info("Committing batch")

	result, err := s.persister.BulkCreate(ctx, records)
	if err == nil && result != nil && (result.Failed > 0 || len(result.Errors) > 0) {
		err = ErrPartialCommit
	}
	if err != nil {
		logger.WithError(err).Error("Commit failed")
		return nil, &CommitError{Pending: len(records), Result: result, Err: err}
	}

	accepted := make([]Item, 0, len(pending))
	for _, item := range pending {
		c := *item
		c.Status = StatusAccepted
		accepted = append(accepted, c)
	}
	created := len(records)
	if result != nil && result.Created > 0 {
		created = result.Created
	}
	s.items = nil

	logger.WithField("created", created).Info("Batch committed")
	return &CommitResult{Created: created, Accepted: accepted}, nil
}

// Reset clears items and the batch log.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.log = nil
}

// Items returns a snapshot of the items in order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	for i, item := range s.items {
		out[i] = *item
		out[i].Record = *item.Record.Clone()
	}
	return out
}

// Records returns the pending records in order.
func (s *Session) Records() []core.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.ProductRecord
	for _, item := range s.items {
		if item.Status == StatusPending {
			out = append(out, *item.Record.Clone())
		}
	}
	return out
}

// Log returns a snapshot of the batch log.
func (s *Session) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.log...)
}

// Len returns the number of items regardless of status.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Counts tallies items by status.
func (s *Session) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Counts
	for _, item := range s.items {
		switch item.Status {
		case StatusPending:
			c.Pending++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c
}

func (s *Session) at(index int) (*Item, error) {
	if index < 0 || index >= len(s.items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.items))
	}
	return s.items[index], nil
}

// IsCommitFailure reports whether err came from a failed commit.
func IsCommitFailure(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce)
}
