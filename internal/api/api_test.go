package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkhisamo/learn-english/internal/progress"
	"github.com/Mkhisamo/learn-english/internal/repository/sqlite"
	"github.com/Mkhisamo/learn-english/internal/services"
	"github.com/Mkhisamo/learn-english/internal/storage"
	"github.com/Mkhisamo/learn-english/internal/testutil"
	"github.com/Mkhisamo/learn-english/internal/worker"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	words := sqlite.NewWordRepository(database.DB)
	categories := sqlite.NewCategoryRepository(database.DB)
	store := progress.NewStore(storage.NewSQLiteStore(database.DB))

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	gate := NewGate("parent123", 0)
	gate.sleep = func(time.Duration) {}

	srv := &Server{
		Words:    services.NewWordService(words, categories),
		Training: services.NewTrainingService(words, categories, store, 10),
		Progress: services.NewProgressService(store),
		Notify:   services.NewNotifyService(nil, pool),
		Gate:     gate,
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func unlock(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/unlock", map[string]string{"password": "parent123"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnlock_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	resp := doJSON(t, http.MethodPost, ts.URL+"/unlock", map[string]string{"password": "nope"}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWordMutations_RequireParentToken(t *testing.T) {
	ts := newTestServer(t)
	payload := map[string]string{"english": "milk", "translation": "молоко", "category": "food"}

	resp := doJSON(t, http.MethodPost, ts.URL+"/words/", payload, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := unlock(t, ts)
	resp = doJSON(t, http.MethodPost, ts.URL+"/words/", payload, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestListWords_OpenWithoutToken(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/words/")
	require.NoError(t, err)

	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, body.Count, 0, "seed words are present")
}

func TestExportWords_CSV(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/words/export?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "English,Russian,Category")
}

func TestTrainingFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/training/", map[string]any{
		"mode":          "en-to-ru",
		"questionCount": 3,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view struct {
		ID       string `json:"id"`
		Phase    string `json:"phase"`
		Question *struct {
			CorrectAnswer string `json:"correctAnswer"`
		} `json:"question"`
	}
	decodeBody(t, resp, &view)
	require.Equal(t, "answering", view.Phase)
	require.NotNil(t, view.Question)

	base := fmt.Sprintf("%s/training/%s", ts.URL, view.ID)
	for view.Phase == "answering" {
		resp = doJSON(t, http.MethodPost, base+"/answer", map[string]string{"answer": view.Question.CorrectAnswer}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &view)
	}
	require.Equal(t, "results", view.Phase)

	resp = doJSON(t, http.MethodGet, base+"/results", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		CorrectAnswers  int `json:"correctAnswers"`
		ScorePercentage int `json:"scorePercentage"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 100, result.ScorePercentage)

	// The finished run shows up in the progress overview.
	resp = doJSON(t, http.MethodGet, ts.URL+"/progress/?window=all", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var overview struct {
		TotalQuizzes int `json:"total_quizzes"`
		TotalPoints  int `json:"totalPoints"`
	}
	decodeBody(t, resp, &overview)
	assert.Equal(t, 1, overview.TotalQuizzes)
	assert.Greater(t, overview.TotalPoints, 0)
}

func TestNotify_UnconfiguredReturnsError(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/training/", map[string]any{
		"mode":          "en-to-ru",
		"questionCount": 3,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view struct {
		ID       string `json:"id"`
		Phase    string `json:"phase"`
		Question *struct {
			CorrectAnswer string `json:"correctAnswer"`
		} `json:"question"`
	}
	decodeBody(t, resp, &view)

	base := fmt.Sprintf("%s/training/%s", ts.URL, view.ID)
	for view.Phase == "answering" {
		resp = doJSON(t, http.MethodPost, base+"/skip", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &view)
	}

	resp = doJSON(t, http.MethodPost, base+"/notify", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProgressClear_RequiresParentToken(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/progress/clear", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := unlock(t, ts)
	resp = doJSON(t, http.MethodPost, ts.URL+"/progress/clear", nil, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
