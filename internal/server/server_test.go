package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *Server {
	return New(Config{
		Host:          "127.0.0.1",
		Port:          0,
		MaxBodyBytes:  1 << 20,
		MaxStatements: 100,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestDetectEndpoint(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodPost, "/api/v1/detect",
		`{"sql": "SELECT * FROM emp CONNECT BY PRIOR id = mgr"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp detectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "oracle", string(resp.Dialect))
	assert.Equal(t, "high", resp.Confidence)
	assert.Equal(t, 3, resp.Scores["oracle"])
}

func TestNormalizeEndpoint(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodPost, "/api/v1/normalize",
		`{"sql": "SELECT * FROM a, b WHERE a.id = b.id(+)", "dialect": "oracle"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp normalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.NotContains(t, resp.Results[0].SQL, "(+)")
	assert.Contains(t, resp.Results[0].Applied, "oracle-joins")
}

func TestNormalizeEndpointUnknownDialect(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodPost, "/api/v1/normalize",
		`{"sql": "SELECT 1", "dialect": "db2"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown dialect")
}

func TestSplitEndpoint(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodPost, "/api/v1/split",
		`{"sql": "SELECT 1; SELECT 2;"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp splitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, resp.Statements)
}

func TestBadJSONRejected(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodPost, "/api/v1/detect", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingSQLRejected(t *testing.T) {
	rec := doJSON(t, testServer().Routes(), http.MethodPost, "/api/v1/detect", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing sql")
}

func TestBodyTooLargeRejected(t *testing.T) {
	srv := New(Config{MaxBodyBytes: 64, MaxStatements: 100})

	big := `{"sql": "SELECT '` + strings.Repeat("x", 200) + `'"}`
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/detect", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTooManyStatementsRejected(t *testing.T) {
	srv := New(Config{MaxBodyBytes: 1 << 20, MaxStatements: 1})

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/split",
		`{"sql": "SELECT 1; SELECT 2;"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit is 1")
}

func TestRequestIDPropagated(t *testing.T) {
	h := testServer().Routes()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "given-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "given-id", rec.Header().Get("X-Request-Id"))
}
