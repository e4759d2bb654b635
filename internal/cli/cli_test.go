package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/auth"
	"github.com/pratik-mahalle/trainhub/internal/config"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/internal/testutil"
	"github.com/pratik-mahalle/trainhub/migrations"
	"github.com/pratik-mahalle/trainhub/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// runCLI executes the root command with args and returns what it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	// persistent flag values survive between executions
	for name, def := range map[string]string{"output": "table", "server": "", "token": ""} {
		require.NoError(t, rootCmd.PersistentFlags().Set(name, def))
	}

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTokenMint(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "trainhub-test")

	out, err := runCLI(t, "token", "mint", "alice", "--admin", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.ParseClaims(strings.TrimSpace(out), "cli-secret", "trainhub-test")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.True(t, claims.HasRole(auth.RoleAdmin))
}

func TestAccessCheckCommand(t *testing.T) {
	asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/access/go-101", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "bob", r.URL.Query().Get("userId"))
		assert.Equal(t, asOf.Format(time.RFC3339Nano), r.URL.Query().Get("asOf"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": client.AccessDecision{
				UserID: "bob", TrainingID: "go-101", Granted: true, Via: "ORGANIZATION", AsOf: asOf,
			},
		})
	}))
	defer srv.Close()

	out, err := runCLI(t, "access", "check", "go-101",
		"--server", srv.URL, "--token", "tok", "--user", "bob", "--as-of", "2024-02-01T00:00:00Z", "-o", "json")
	require.NoError(t, err)

	var d client.AccessDecision
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.True(t, d.Granted)
	assert.Equal(t, "ORGANIZATION", d.Via)
}

func TestClientCommandsRequireToken(t *testing.T) {
	_, err := runCLI(t, "subscription", "cancel", "sub-1", "--server", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token configured")
}

func TestSubscriptionRenewCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/subscriptions/sub-1/renew", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": client.Subscription{
				ID: "sub-2", AccountID: "acc-1", PlanID: "plan-1", Status: "ACTIVE",
				Origin: client.OriginRenewal, RenewedFromID: "sub-1",
			},
		})
	}))
	defer srv.Close()

	out, err := runCLI(t, "sub", "renew", "sub-1", "--server", srv.URL, "--token", "tok", "-o", "yaml")
	require.NoError(t, err)

	var subs []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-2", subs[0]["id"])
}

func TestPrintSubscriptionsTable(t *testing.T) {
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	defer func() { stdout = prev }()
	outputFormat = "table"

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, printSubscriptions([]client.Subscription{{
		ID: "sub-1", AccountID: "acc-1", PlanID: "plan-1", Status: "EXPIRED",
		Origin: "PURCHASE", StartDate: start, EndDate: start.AddDate(0, 0, 30),
	}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "[-] EXPIRED")
	assert.Contains(t, lines[2], "2024-01-31 00:00")
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "[+] ACTIVE", formatStatus("ACTIVE"))
	assert.Equal(t, "[~] CANCELED", formatStatus("CANCELED"))
	assert.Equal(t, "[-] FAILED", formatStatus("FAILED"))
	assert.Equal(t, "SOMETHING", formatStatus("SOMETHING"))
	assert.Equal(t, "-", formatTime(time.Time{}))
	assert.Equal(t, "-", orDash(""))
}

func TestNewAppServesHealth(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)
	_, err := postgres.RunMigrations(db, migrations.GetFS())
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{FrontendURL: "http://localhost:5173"},
		Auth:      config.AuthConfig{JWTSecret: "s", Issuer: "trainhub"},
		Sweeper:   config.SweeperConfig{Schedule: "@every 1h", BatchSize: 10},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
	a := newApp(db, cfg, logger.Nop())
	require.NotNil(t, a.sweeper)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me/trainings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
