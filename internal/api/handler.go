package api

import (
	"crypto/rand"
	mrand "math/rand"
	"net/http"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/clock"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/leaderboard"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// AuthConfig carries OAuth and session settings.
type AuthConfig struct {
	SessionSecret       string
	SessionSecureCookie bool

	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
	GoogleClientID     string
	GoogleClientSecret string

	// FrontendURL receives the browser after a GitHub login.
	FrontendURL string

	// Provider endpoints; zero values use the real providers.
	GitHubEndpoint      oauth2.Endpoint
	GitHubUserURL       string
	GitHubUserEmailsURL string
	GoogleEndpoint      oauth2.Endpoint
	GoogleUserInfoURL   string
}

// Handler groups every HTTP handler of the service.
type Handler struct {
	repo    storage.Repository
	rules   *game.Rules
	board   leaderboard.Board
	clock   clock.Clock
	auth    AuthConfig
	secret  []byte
	client  *http.Client
	newRand func() *mrand.Rand
}

type Options struct {
	Repo  storage.Repository
	Rules *game.Rules
	// Board defaults to the repository board.
	Board leaderboard.Board
	Clock clock.Clock
	Auth  AuthConfig
	// HTTPClient is used for provider APIs and avatar downloads.
	HTTPClient *http.Client
	// NewRand returns a fresh source of randomness per request.
	NewRand func() *mrand.Rand
}

func NewHandler(o Options) *Handler {
	h := &Handler{
		repo:    o.Repo,
		rules:   o.Rules,
		board:   o.Board,
		clock:   o.Clock,
		auth:    o.Auth,
		client:  o.HTTPClient,
		newRand: o.NewRand,
	}
	if h.board == nil {
		h.board = leaderboard.NewRepositoryBoard(o.Repo)
	}
	if h.clock == nil {
		h.clock = clock.New()
	}
	if h.client == nil {
		h.client = &http.Client{Timeout: 15 * time.Second}
	}
	if h.newRand == nil {
		h.newRand = func() *mrand.Rand { return mrand.New(mrand.NewSource(time.Now().UnixNano())) }
	}
	if h.auth.GitHubEndpoint.AuthURL == "" {
		h.auth.GitHubEndpoint = github.Endpoint
	}
	if h.auth.GitHubUserURL == "" {
		h.auth.GitHubUserURL = constants.GitHubUserURL
	}
	if h.auth.GitHubUserEmailsURL == "" {
		h.auth.GitHubUserEmailsURL = constants.GitHubUserEmailsURL
	}
	if h.auth.GoogleEndpoint.AuthURL == "" {
		h.auth.GoogleEndpoint = google.Endpoint
	}
	if h.auth.GoogleUserInfoURL == "" {
		h.auth.GoogleUserInfoURL = constants.GoogleUserInfoURL
	}

	h.secret = []byte(o.Auth.SessionSecret)
	if len(h.secret) == 0 {
		// Sessions will not survive a restart.
		h.secret = make([]byte, 32)
		if _, err := rand.Read(h.secret); err != nil {
			logging.Fatal("failed to generate dev session secret", err, nil)
		}
		logging.Warn("SESSION_SECRET not set; using an in-memory development secret", nil)
	}
	return h
}

// seed picks the generation seed for a new realm.
func (h *Handler) seed() int64 {
	return h.newRand().Int63()
}
