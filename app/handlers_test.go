package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codekeep/codekeep/app"
	"github.com/codekeep/codekeep/core/barcode"
	"github.com/codekeep/codekeep/core/record"
)

func newTestServer(t *testing.T, opts ...app.Option) (*httptest.Server, *record.MemoryStore) {
	t.Helper()

	store := record.NewMemoryStore()
	srv := httptest.NewServer(app.New(store, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func createRecord(t *testing.T, store *record.MemoryStore, name, value string, format barcode.Format) record.Record {
	t.Helper()

	rec, err := record.New(name, value, format)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), rec))
	return rec
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("ok_without_probe", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t)
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unavailable_when_probe_fails", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t, app.WithHealthcheck(func(context.Context) error {
			return fmt.Errorf("store is down")
		}))
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestRecordCRUD(t *testing.T) {
	t.Parallel()

	t.Run("create_get_list_update_delete", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t)

		resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", map[string]string{
			"name":   "Work WiFi",
			"value":  "WIFI:T:WPA;S:office;P:hunter2;;",
			"format": "qr_code",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decodeBody[record.Record](t, resp)
		assert.NotEqual(t, uuid.Nil, created.ID)

		resp, err := http.Get(srv.URL + "/api/records/" + created.ID.String())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decodeBody[record.Record](t, resp)
		assert.Equal(t, created.Value, got.Value)

		resp, err = http.Get(srv.URL + "/api/records")
		require.NoError(t, err)
		listed := decodeBody[[]record.Record](t, resp)
		require.Len(t, listed, 1)

		resp = doJSON(t, http.MethodPut, srv.URL+"/api/records/"+created.ID.String(), map[string]string{
			"name":   "Home WiFi",
			"value":  created.Value,
			"format": "qr_code",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decodeBody[record.Record](t, resp)
		assert.Equal(t, "Home WiFi", updated.Name)

		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/records/"+created.ID.String(), nil)
		require.NoError(t, err)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, err = http.Get(srv.URL + "/api/records/" + created.ID.String())
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("create_rejects_empty_value", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t)
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", map[string]string{
			"format": "qr_code",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid_id_is_bad_request", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t)
		resp, err := http.Get(srv.URL + "/api/records/not-a-uuid")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExportImportEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("round_trips_between_instances", func(t *testing.T) {
		t.Parallel()

		srcSrv, srcStore := newTestServer(t)
		createRecord(t, srcStore, "one", "value-1", barcode.FormatQRCode)
		createRecord(t, srcStore, "two", "value-2", barcode.FormatCode128)

		resp, err := http.Get(srcSrv.URL + "/api/records/export")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "codekeep-export.json")

		var exported bytes.Buffer
		_, err = exported.ReadFrom(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		dstSrv, dstStore := newTestServer(t)
		resp, err = http.Post(dstSrv.URL+"/api/records/import", "application/json", &exported)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decodeBody[map[string]int](t, resp)
		assert.Equal(t, 2, result["imported"])

		records, err := dstStore.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("rejects_malformed_import", func(t *testing.T) {
		t.Parallel()

		srv, _ := newTestServer(t)
		resp, err := http.Post(srv.URL+"/api/records/import", "application/json",
			strings.NewReader("{broken"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRecordImage(t *testing.T) {
	t.Parallel()

	t.Run("renders_qr_png", func(t *testing.T) {
		t.Parallel()

		srv, store := newTestServer(t)
		rec := createRecord(t, store, "wifi", "WIFI:T:WPA;S:office;;", barcode.FormatQRCode)

		resp, err := http.Get(srv.URL + "/api/records/" + rec.ID.String() + "/image?size=128")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

		var body bytes.Buffer
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
	})

	t.Run("unrenderable_format_is_unprocessable", func(t *testing.T) {
		t.Parallel()

		srv, store := newTestServer(t)
		rec := createRecord(t, store, "barcode", "4006381333931", barcode.FormatEAN13)

		resp, err := http.Get(srv.URL + "/api/records/" + rec.ID.String() + "/image")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
