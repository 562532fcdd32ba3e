package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/clock"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/config"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

type testServer struct {
	router  *gin.Engine
	handler *Handler
	repo    storage.Repository
	clock   *clock.Fixed
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, auth AuthConfig) *testServer {
	t.Helper()
	db, err := storage.OpenAndMigrate(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	if auth.SessionSecret == "" {
		auth.SessionSecret = "test-secret"
	}
	repo := storage.NewSQLiteRepository(db)
	clk := clock.NewFixed(testNow)
	h := NewHandler(Options{Repo: repo, Rules: cfg.Rules, Clock: clk, Auth: auth})

	router := gin.New()
	router.Use(Recovery())
	RegisterRoutes(router, h)
	return &testServer{router: router, handler: h, repo: repo, clock: clk}
}

// login creates a player and returns a valid session cookie for them.
func (s *testServer) login(t *testing.T, email string) (*game.User, *http.Cookie) {
	t.Helper()
	u, err := s.repo.UpsertLogin(email, "Player", constants.ProviderGitHub, "", testNow)
	require.NoError(t, err)
	token, err := s.handler.createSessionToken(u, constants.SessionTTL)
	require.NoError(t, err)
	return u, &http.Cookie{Name: constants.CookieSessionName, Value: token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
