package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/stretchr/testify/require"
)

const testRoster = `
staff:
  - name: Admin User
    email: admin
    password: adminpass
    role: ADMIN
student_ranges:
  - prefix: 24UAM
    from: 101
    to: 102
    password: studentpass
catalog:
  - Birth Certificate
  - 10th TC
`

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	roster := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(roster, []byte(testRoster), 0600))

	return Config{
		StoreDriver:          "json",
		DatabaseFile:         filepath.Join(dir, "db.json"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SessionAlgorithm:     "HS256",
		SessionSecret:        "0123456789abcdef0123456789abcdef",
		SessionIssuer:        "custody",
		SessionTTL:           time.Hour,
		RevocationBackend:    "memory",
		SeedOnStart:          true,
		RosterFile:           roster,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestApplicationServesSeededStore(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	app.housekeepingService.Start()

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	body, err := json.Marshal(custodysdk.LoginRequest{Email: "24UAM101", Password: "studentpass"})
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == custodysdk.SessionCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/certificates", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	list, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer list.Body.Close()
	require.Equal(t, http.StatusOK, list.StatusCode)

	var certs []custodysdk.Certificate
	require.NoError(t, json.NewDecoder(list.Body).Decode(&certs))
	require.Len(t, certs, 2)
	require.Equal(t, "Birth Certificate", certs[0].Title)

	require.NoError(t, app.Shutdown())

	// The document was written through to disk.
	raw, err := os.ReadFile(cfg.DatabaseFile)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"24UAM102"`)
}

func TestSeedOnStartKeepsExistingData(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, first.closeBackends())

	before, err := os.ReadFile(cfg.DatabaseFile)
	require.NoError(t, err)

	second, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, second.closeBackends())

	after, err := os.ReadFile(cfg.DatabaseFile)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSeedReplacesStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "sqlite"
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "custody.db")

	roster, err := LoadRosterOrDefault(cfg.RosterFile)
	require.NoError(t, err)

	sum, err := Seed(t.Context(), cfg, roster)
	require.NoError(t, err)
	require.Equal(t, 3, sum.Users)
	require.Equal(t, 2, sum.Catalog)
	require.Equal(t, 4, sum.Certificates)

	// Seeding again replaces rather than appends, and ids keep counting.
	sum, err = Seed(t.Context(), cfg, roster)
	require.NoError(t, err)
	require.Equal(t, 4, sum.Certificates)

	st, err := OpenStore(t.Context(), cfg)
	require.NoError(t, err)
	defer st.Close()

	users, err := st.Users().List(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, int64(4), users[0].ID)

	certs, err := st.Certificates().List(t.Context())
	require.NoError(t, err)
	require.Len(t, certs, 4)
	require.Equal(t, int64(5), certs[0].ID)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "postgres"
	_, err := New(cfg)
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.RevocationBackend = "redis"
	_, err = New(cfg)
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.SessionAlgorithm = "none"
	_, err = New(cfg)
	require.Error(t, err)
}
