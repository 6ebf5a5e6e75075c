package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"feedbackapp/internal/config"
	"feedbackapp/internal/database"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:          "5001",
			Host:          "127.0.0.1",
			SessionSecret: "test-secret",
			CORSOrigins:   []string{"http://localhost:5001"},
			Debug:         false,
		},
		Database: config.DatabaseConfig{Path: "feedback.db"},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()

	logger := observability.NewLogger(nil)
	dm := database.NewManager(logger)
	db, err := dm.InitDB(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := services.NewFeedbackService(db, logger)
	return NewRouter(testConfig(), svc, db, logger), db
}

// doRequest performs a request, carrying over any session cookies.
func doRequest(router *gin.Engine, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHome_RedirectsToReadView(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/read_feedback", w.Header().Get("Location"))
}

func TestCreateFeedback_HappyPath(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"user": {"alice"}, "comment": {"great app"}}
	w := doRequest(router, http.MethodPost, "/create_feedback", form, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/read_feedback", w.Header().Get("Location"))

	// The flash shows up on the next page load
	read := doRequest(router, http.MethodGet, "/read_feedback", nil, w.Result().Cookies())
	assert.Equal(t, http.StatusOK, read.Code)
	assert.Contains(t, read.Body.String(), config.MsgFeedbackCreated)
	assert.Contains(t, read.Body.String(), "alice")
	assert.Contains(t, read.Body.String(), "great app")
}

func TestCreateFeedback_ValidationFailureRerenders(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"user": {"alice"}, "comment": {"   "}}
	w := doRequest(router, http.MethodPost, "/create_feedback", form, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), config.MsgFieldsRequired)
	assert.Contains(t, w.Body.String(), "<form method=\"POST\" action=\"/create_feedback\">")
}

func TestCreateFeedback_StorageFailureRerenders(t *testing.T) {
	router, db := newTestRouter(t)
	require.NoError(t, db.Close())

	form := url.Values{"user": {"alice"}, "comment": {"lost"}}
	w := doRequest(router, http.MethodPost, "/create_feedback", form, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), config.MsgCreateError)
}

func TestReadFeedback_EmptyState(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/read_feedback", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No feedback yet.")
}

func insertRow(t *testing.T, db *sql.DB, user, comment, timestamp string) int {
	t.Helper()
	_, err := db.Exec(`INSERT INTO feedback (user, comment, timestamp) VALUES (?, ?, ?)`, user, comment, timestamp)
	require.NoError(t, err)
	var id int
	require.NoError(t, db.QueryRow(`SELECT id FROM feedback WHERE user = ?`, user).Scan(&id))
	return id
}

func TestReadFeedback_NewestFirst(t *testing.T) {
	router, db := newTestRouter(t)
	insertRow(t, db, "older", "first", "2024-01-01 10:00:00")
	insertRow(t, db, "newer", "second", "2024-01-02 10:00:00")

	w := doRequest(router, http.MethodGet, "/read_feedback", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Less(t, strings.Index(body, "newer"), strings.Index(body, "older"))
}

func TestUpdateFeedbackPage_RendersCurrentValues(t *testing.T) {
	router, db := newTestRouter(t)
	id := insertRow(t, db, "alice", "original text", "2024-01-01 10:00:00")

	w := doRequest(router, http.MethodGet, "/update_feedback/"+strconv.Itoa(id), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.Contains(t, w.Body.String(), "original text")
}

func TestUpdateFeedbackPage_MissingEntryRedirects(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/update_feedback/999", nil, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/read_feedback", w.Header().Get("Location"))

	read := doRequest(router, http.MethodGet, "/read_feedback", nil, w.Result().Cookies())
	assert.Contains(t, read.Body.String(), config.MsgFeedbackNotFound)
}

func TestUpdateFeedback_HappyPath(t *testing.T) {
	router, db := newTestRouter(t)
	id := insertRow(t, db, "alice", "before", "2024-01-01 10:00:00")

	form := url.Values{"user": {"alice b"}, "comment": {"after"}}
	w := doRequest(router, http.MethodPost, "/update_feedback/"+strconv.Itoa(id), form, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/read_feedback", w.Header().Get("Location"))

	var user, comment string
	require.NoError(t, db.QueryRow(`SELECT user, comment FROM feedback WHERE id = ?`, id).Scan(&user, &comment))
	assert.Equal(t, "alice b", user)
	assert.Equal(t, "after", comment)
}

func TestUpdateFeedback_ValidationFailureRedirectsBack(t *testing.T) {
	router, db := newTestRouter(t)
	id := insertRow(t, db, "alice", "before", "2024-01-01 10:00:00")

	form := url.Values{"user": {""}, "comment": {"after"}}
	w := doRequest(router, http.MethodPost, "/update_feedback/"+strconv.Itoa(id), form, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/update_feedback/"+strconv.Itoa(id), w.Header().Get("Location"))

	// Entry untouched
	var comment string
	require.NoError(t, db.QueryRow(`SELECT comment FROM feedback WHERE id = ?`, id).Scan(&comment))
	assert.Equal(t, "before", comment)
}

func TestUpdateFeedback_MissingEntry(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"user": {"ghost"}, "comment": {"nothing"}}
	w := doRequest(router, http.MethodPost, "/update_feedback/999", form, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/read_feedback", w.Header().Get("Location"))
}

func TestDeleteFeedback(t *testing.T) {
	router, db := newTestRouter(t)
	id := insertRow(t, db, "alice", "to be removed", "2024-01-01 10:00:00")

	w := doRequest(router, http.MethodGet, "/delete_feedback/"+strconv.Itoa(id), nil, nil)
	require.Equal(t, http.StatusFound, w.Code)

	read := doRequest(router, http.MethodGet, "/read_feedback", nil, w.Result().Cookies())
	assert.Contains(t, read.Body.String(), config.MsgFeedbackDeleted)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM feedback`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestDeleteFeedback_MissingEntryFlashesError(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/delete_feedback/999", nil, nil)
	require.Equal(t, http.StatusFound, w.Code)

	read := doRequest(router, http.MethodGet, "/read_feedback", nil, w.Result().Cookies())
	assert.Contains(t, read.Body.String(), config.MsgDeleteError)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.GreaterOrEqual(t, resp["uptime_seconds"].(float64), float64(0))
}

func TestVersionEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/v1/version", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "feedbackapp", resp["service"])
	assert.NotEmpty(t, resp["version"])
}

func TestListFeedbackJSON(t *testing.T) {
	router, db := newTestRouter(t)
	insertRow(t, db, "alice", "hello", "2024-01-01 10:00:00")

	w := doRequest(router, http.MethodGet, "/v1/feedback", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "alice", resp[0]["user"])
}

func TestGetFeedbackJSON(t *testing.T) {
	router, db := newTestRouter(t)
	id := insertRow(t, db, "alice", "hello", "2024-01-01 10:00:00")

	w := doRequest(router, http.MethodGet, "/v1/feedback/"+strconv.Itoa(id), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp["comment"])
}

func TestGetFeedbackJSON_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/v1/feedback/999", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RECORD_NOT_FOUND")
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	// Generate at least one observation first
	doRequest(router, http.MethodGet, "/read_feedback", nil, nil)

	w := doRequest(router, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "feedback_http_requests_total")
}
