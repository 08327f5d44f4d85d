package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) BulkCreate(ctx context.Context, records []core.ProductRecord) (*core.BulkResult, error) {
	args := m.Called(ctx, records)
	result, _ := args.Get(0).(*core.BulkResult)
	return result, args.Error(1)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func wixPage(sku string) []byte {
	return []byte(fmt.Sprintf(`<html><head><title>wixeurope.com</title></head><body>
<div class="inside"><h1>Filtros de aceite: %s</h1></div>
<div class="product-table-sizes"><div><span>A</span><span>76</span></div></div>
<div id="tab2"><div class="panel panel-default"><div class="panel-heading"><a>BMW</a></div>
<div class="panel-collapse"><ul><li>11427953125</li></ul></div></div></div>
</body></html>`, sku))
}

// fiveDocs has two unparseable inputs at positions 1 and 3.
func fiveDocs() []Document {
	return []Document{
		{Source: "a.html", Content: wixPage("WL7476")},
		{Source: "b.bin", Content: []byte{0x00, 0x01, 0x02}},
		{Source: "c.html", Content: wixPage("WL7477")},
		{Source: "d.txt", Content: []byte("plain text")},
		{Source: "e.html", Content: wixPage("WL7478")},
	}
}

func newTestSession(t *testing.T, persister core.Persister, opts ...Option) *Session {
	t.Helper()
	processor := pipeline.New(pipeline.WithLogger(quietLogger()))
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewSession(processor, persister, opts...)
}

func skus(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Record.SKU
	}
	return out
}

func TestAddKeepsInputOrderAndLogsFailures(t *testing.T) {
	s := newTestSession(t, &mockPersister{}, WithWorkers(3))

	summary := s.Add(fiveDocs())
	assert.Equal(t, AddSummary{Added: 3, Failed: 2}, summary)

	items := s.Items()
	assert.Equal(t, []string{"WL7476", "WL7477", "WL7478"}, skus(items))
	for _, item := range items {
		assert.Equal(t, StatusPending, item.Status)
		assert.NotEmpty(t, item.ID)
	}
	assert.NotEqual(t, items[0].ID, items[1].ID)

	log := s.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "b.bin", log[0].Source)
	assert.Equal(t, "d.txt", log[1].Source)
	for _, entry := range log {
		assert.ErrorIs(t, entry.Err, core.ErrUnparseable)
		assert.True(t, strings.HasPrefix(entry.String(), entry.Source+": "))
	}
}

func TestAddReportsProgress(t *testing.T) {
	var (
		mu      sync.Mutex
		reports []Progress
	)
	s := newTestSession(t, &mockPersister{}, WithProgress(func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		reports = append(reports, p)
	}))

	s.Add(fiveDocs())

	require.Len(t, reports, 5)
	failed := 0
	for i, p := range reports {
		assert.Equal(t, i+1, p.Done)
		assert.Equal(t, 5, p.Total)
		if p.Err != nil {
			failed++
		}
	}
	assert.Equal(t, 2, failed)
}

func TestAddAccumulates(t *testing.T) {
	s := newTestSession(t, &mockPersister{})

	s.Add([]Document{{Source: "a", Content: wixPage("WL1")}})
	s.Add([]Document{{Source: "b", Content: wixPage("WL2")}, {Source: "c", Content: nil}})

	assert.Equal(t, []string{"WL1", "WL2"}, skus(s.Items()))
	assert.Len(t, s.Log(), 1)
}

func TestEditAndRemove(t *testing.T) {
	s := newTestSession(t, &mockPersister{})
	s.Add(fiveDocs())

	require.NoError(t, s.Edit(1, Set("name", "Renamed"), SetSpec(0, "value", "80")))
	items := s.Items()
	assert.Equal(t, "Renamed", items[1].Record.Name)
	assert.Equal(t, "80", items[1].Record.Specs[0].Value)
	assert.Equal(t, "76", items[0].Record.Specs[0].Value)

	require.NoError(t, s.Remove(0))
	assert.Equal(t, []string{"WL7477", "WL7478"}, skus(s.Items()))

	assert.ErrorIs(t, s.Remove(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Edit(-1, Set("name", "x")), ErrIndexOutOfRange)
	assert.Equal(t, 2, s.Len())
}

func TestEditIsAtomic(t *testing.T) {
	s := newTestSession(t, &mockPersister{})
	s.Add(fiveDocs())
	before := s.Items()[0]

	err := s.Edit(0, Set("name", "changed"), SetSpec(5, "value", "1"))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	err = s.Edit(0, Set("name", "changed"), Set("sku", "  "))
	assert.ErrorIs(t, err, core.ErrMissingIdentity)

	assert.Equal(t, before, s.Items()[0])
}

func TestItemsAreSnapshots(t *testing.T) {
	s := newTestSession(t, &mockPersister{})
	s.Add(fiveDocs())

	items := s.Items()
	items[0].Record.Specs[0].Value = "mutated"
	items[0].Record.SKU = "mutated"

	assert.Equal(t, "WL7476", s.Items()[0].Record.SKU)
	assert.Equal(t, "76", s.Items()[0].Record.Specs[0].Value)
}

func TestRejectAndRestore(t *testing.T) {
	s := newTestSession(t, &mockPersister{})
	s.Add(fiveDocs())

	require.NoError(t, s.Reject(1))
	assert.Equal(t, Counts{Pending: 2, Rejected: 1}, s.Counts())
	assert.Equal(t, []string{"WL7476", "WL7478"}, recordSKUs(s.Records()))

	assert.ErrorIs(t, s.Reject(1), ErrNotPending)
	assert.ErrorIs(t, s.Edit(1, Set("name", "x")), ErrNotPending)
	assert.ErrorIs(t, s.Restore(0), ErrNotRejected)

	require.NoError(t, s.Restore(1))
	assert.Equal(t, Counts{Pending: 3}, s.Counts())
}

func recordSKUs(records []core.ProductRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SKU
	}
	return out
}

func TestCommitSuccess(t *testing.T) {
	persister := &mockPersister{}
	persister.On("BulkCreate", mock.Anything, mock.MatchedBy(func(records []core.ProductRecord) bool {
		return len(records) == 2 && records[0].SKU == "WL7476" && records[1].SKU == "WL7478"
	})).Return(&core.BulkResult{Created: 2}, nil).Once()

	s := newTestSession(t, persister)
	s.Add(fiveDocs())
	require.NoError(t, s.Reject(1))

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Accepted, 2)
	for _, item := range result.Accepted {
		assert.Equal(t, StatusAccepted, item.Status)
	}

	assert.Zero(t, s.Len())
	assert.Len(t, s.Log(), 2)
	persister.AssertExpectations(t)
}

func TestCommitFailureLeavesSessionUnchanged(t *testing.T) {
	persister := &mockPersister{}
	persister.On("BulkCreate", mock.Anything, mock.Anything).
		Return(nil, errors.New("inventory unavailable")).Once()

	s := newTestSession(t, persister)
	s.Add(fiveDocs())
	before := s.Items()

	result, err := s.Commit(context.Background())
	assert.Nil(t, result)
	assert.True(t, IsCommitFailure(err))

	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.Pending)
	assert.Contains(t, err.Error(), "inventory unavailable")

	assert.Equal(t, before, s.Items())
	persister.AssertExpectations(t)
}

func TestCommitPartialFailure(t *testing.T) {
	persister := &mockPersister{}
	persister.On("BulkCreate", mock.Anything, mock.Anything).Return(&core.BulkResult{
		Created: 2,
		Failed:  1,
		Errors:  []core.ItemError{{Index: 1, SKU: "WL7477", Message: "duplicate sku"}},
	}, nil).Once()

	s := newTestSession(t, persister)
	s.Add(fiveDocs())

	_, err := s.Commit(context.Background())
	assert.ErrorIs(t, err, ErrPartialCommit)
	assert.Contains(t, err.Error(), "#1 WL7477: duplicate sku")
	assert.Equal(t, 3, s.Len())
}

func TestCommitCancelled(t *testing.T) {
	persister := &mockPersister{}
	persister.On("BulkCreate", mock.Anything, mock.Anything).
		Return(nil, context.Canceled).Once()

	s := newTestSession(t, persister)
	s.Add(fiveDocs())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Commit(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, s.Len())
}

func TestCommitNothingPending(t *testing.T) {
	persister := &mockPersister{}
	s := newTestSession(t, persister)

	_, err := s.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNothingToCommit)

	s.Add(fiveDocs()[:1])
	require.NoError(t, s.Reject(0))
	_, err = s.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNothingToCommit)

	persister.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything)
}

func TestReset(t *testing.T) {
	s := newTestSession(t, &mockPersister{})
	s.Add(fiveDocs())

	s.Reset()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Log())
}
