package inventory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testRecords() []core.ProductRecord {
	a := core.NewRecord(core.FormatWIX)
	a.SKU = "WL7476"
	b := core.NewRecord(core.FormatFiltron)
	b.SKU = "AP 081-2"
	return []core.ProductRecord{*a, *b}
}

func TestClientBulkCreate(t *testing.T) {
	var got []core.ProductRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, bulkPath, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", WithToken("secret"), WithLogger(quietLogger()))
	result, err := c.BulkCreate(context.Background(), testRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	require.Len(t, got, 2)
	assert.Equal(t, "WL7476", got[0].SKU)
	assert.NotNil(t, got[0].Specs)
}

func TestClientValidationDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body",1,"sku"],"msg":"already exists"},{"loc":["body"],"msg":"bad batch"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(quietLogger()))
	result, err := c.BulkCreate(context.Background(), testRecords())
	assert.ErrorIs(t, err, ErrRejected)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []core.ItemError{
		{Index: 1, SKU: "AP 081-2", Message: "body.1.sku: already exists"},
		{Index: -1, Message: "body: bad batch"},
	}, result.Errors)
}

func TestClientValidationDetailOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body",-1,"sku"],"msg":"negative"},{"loc":["body",9,"sku"],"msg":"past the end"}]}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL, WithLogger(quietLogger())).
		BulkCreate(context.Background(), testRecords())
	assert.ErrorIs(t, err, ErrRejected)
	require.NotNil(t, result)
	assert.Equal(t, []core.ItemError{
		{Index: -1, Message: "body.-1.sku: negative"},
		{Index: -1, Message: "body.9.sku: past the end"},
	}, result.Errors)
}

func TestClientErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"duplicate batch"}`, "duplicate batch"},
		{"object detail", http.StatusConflict, `{"detail":{"code":7}}`, `{"code":7}`},
		{"plain text", http.StatusInternalServerError, "boom\n", "boom"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := NewClient(server.URL, WithLogger(quietLogger())).
				BulkCreate(context.Background(), testRecords())
			assert.ErrorIs(t, err, ErrRejected)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, -1, result.Errors[0].Index)
			assert.Equal(t, tt.expected, result.Errors[0].Message)
		})
	}
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, WithTimeout(20*time.Millisecond), WithLogger(quietLogger()))
	result, err := c.BulkCreate(context.Background(), testRecords())
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestDecodeResult(t *testing.T) {
	result, err := decodeResult(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)

	result, err = decodeResult([]byte(`{"created":2,"failed":1,"errors":[{"index":2,"message":"bad ean"}]}`), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Errors, 1)

	result, err = decodeResult([]byte(`{"status":"ok"}`), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)

	_, err = decodeResult([]byte(`[1,`), 3)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	d := NewDiscard(quietLogger())

	result, err := d.BulkCreate(context.Background(), testRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.BulkCreate(ctx, testRecords())
	assert.ErrorIs(t, err, context.Canceled)
}
