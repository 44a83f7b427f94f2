package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlog/internal/auth"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/storage"
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestServer(t *testing.T) *testClient {
	t.Helper()

	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	authSvc := auth.NewService(repo, auth.NewLockoutTracker())
	expenses := services.NewExpenseService(repo, nil)
	signer := auth.NewCookieSigner("test-secret-key-for-sessions")
	logger := applog.New(applog.DefaultConfig())

	srv := NewServer(":0", expenses, authSvc, repo, signer, time.Hour, logger)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:      t,
		server: ts,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()
	resp, err := c.http.PostForm(c.server.URL+path, form)
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) postJSON(path string, body any) *http.Response {
	c.t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(c.t, err)
	resp, err := c.http.Post(c.server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) get(path string) *http.Response {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) signup(username, password string) *http.Response {
	return c.postForm("/signup", url.Values{"username": {username}, "password": {password}})
}

func (c *testClient) login(username, password string) *http.Response {
	return c.postForm("/login", url.Values{"username": {username}, "password": {password}})
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func expenseBody(date, category, amount, description string) map[string]any {
	return map[string]any{
		"date":        date,
		"category":    category,
		"amount":      amount,
		"description": description,
	}
}

func TestSignupLoginAndExpenseLifecycle(t *testing.T) {
	c := newTestServer(t)

	resp := c.signup("alice", "Password1")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?registered=1", resp.Header.Get("Location"))
	resp.Body.Close()

	body := readBody(t, c.get("/login?registered=1"))
	assert.Contains(t, body, "Signup successful. Please login.")

	resp = c.login("alice", "Password1")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()

	body = readBody(t, c.get("/"))
	assert.Contains(t, body, "alice")

	resp = c.postJSON("/add_expense", expenseBody("2025-10-14", "groceries", "42.50", "weekly shop"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody[overviewPayload](t, resp)
	assert.True(t, data.Success)
	require.Len(t, data.Expenses, 1)
	assert.Equal(t, "Groceries", data.Expenses[0].Category)
	assert.Equal(t, 42.50, data.Expenses[0].Amount)

	// Session ends, data survives the next login.
	resp = c.get("/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	resp = c.get("/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = c.login("alice", "Password1")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	resp = c.get("/get_expenses")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeBody[overviewPayload](t, resp)
	require.Len(t, data.Expenses, 1)
	assert.Equal(t, "weekly shop", data.Expenses[0].Description)
}

func TestExpensesAreScopedPerUser(t *testing.T) {
	alice := newTestServer(t)
	alice.signup("alice", "Password1").Body.Close()
	alice.login("alice", "Password1").Body.Close()
	alice.postJSON("/add_expense", expenseBody("2025-10-14", "Food", "10", "")).Body.Close()

	bob := &testClient{t: t, server: alice.server, http: newJarClient(t)}
	bob.signup("bob", "Password1").Body.Close()
	bob.login("bob", "Password1").Body.Close()

	resp := bob.get("/get_expenses")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody[overviewPayload](t, resp)
	assert.Empty(t, data.Expenses)
	assert.Empty(t, data.Category)
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestAddExpenseValidation(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()
	c.login("alice", "Password1").Body.Close()

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name:    "bad date",
			body:    expenseBody("14-10-2025", "Food", "10", ""),
			message: "Invalid date format. Use YYYY-MM-DD.",
		},
		{
			name:    "missing amount",
			body:    map[string]any{"date": "2025-10-14", "category": "Food"},
			message: "Amount is required.",
		},
		{
			name:    "numeric amount rejected when zero",
			body:    map[string]any{"date": "2025-10-14", "category": "Food", "amount": 0},
			message: "Amount must be greater than 0.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.postJSON("/add_expense", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			data := decodeBody[errorPayload](t, resp)
			assert.False(t, data.Success)
			assert.Equal(t, tt.message, data.Message)
		})
	}
}

func TestAddExpenseAcceptsNumericAmount(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()
	c.login("alice", "Password1").Body.Close()

	resp := c.postJSON("/add_expense", map[string]any{
		"date": "2025-10-14", "category": "Food", "amount": 12.5,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody[overviewPayload](t, resp)
	require.Len(t, data.Expenses, 1)
	assert.Equal(t, 12.5, data.Expenses[0].Amount)
}

func TestEditMissingExpenseReturnsNotFound(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()
	c.login("alice", "Password1").Body.Close()

	resp := c.postJSON("/edit_expense/999", expenseBody("2025-10-14", "Food", "10", ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	data := decodeBody[errorPayload](t, resp)
	assert.Equal(t, "Expense not found", data.Message)
}

func TestDeleteIsIdempotentOverHTTP(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()
	c.login("alice", "Password1").Body.Close()

	resp := c.postJSON("/add_expense", expenseBody("2025-10-14", "Food", "10", ""))
	data := decodeBody[overviewPayload](t, resp)
	require.Len(t, data.Expenses, 1)
	id := data.Expenses[0].ID

	for range 2 {
		resp := c.postJSON(fmt.Sprintf("/delete_expense/%d", id), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data := decodeBody[overviewPayload](t, resp)
		assert.True(t, data.Success)
		assert.Empty(t, data.Expenses)
	}
}

func TestChartDataShape(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()
	c.login("alice", "Password1").Body.Close()
	c.postJSON("/add_expense", expenseBody("2025-10-14", "Food", "10", "")).Body.Close()
	c.postJSON("/add_expense", expenseBody("2025-11-01", "food", "5", "")).Body.Close()

	resp := c.get("/chart_data")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"category":[{"category":"Food","amount":15}]`)
	assert.Contains(t, body, `"monthly":[{"month":"2025-10","amount":10},{"month":"2025-11","amount":5}]`)
	assert.NotContains(t, body, "expenses")
}

func TestLoginLockout(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()

	for i := 0; i < auth.MaxAttempts; i++ {
		resp := c.login("alice", "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Invalid username or password.")
	}

	// Locked now, even with the correct password.
	resp := c.login("alice", "Password1")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Too many failed attempts. Try again later.")
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()

	resp := c.signup("alice", "Password1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Username already exists.")
}

func TestSignupValidationMessages(t *testing.T) {
	c := newTestServer(t)

	resp := c.signup("al", "Password1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Username must be 3-20 characters")

	resp = c.signup("alice", "password1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = readBody(t, resp)
	assert.Contains(t, body, "uppercase")
}

func TestTamperedSessionCookieRejected(t *testing.T) {
	c := newTestServer(t)
	c.signup("alice", "Password1").Body.Close()
	c.login("alice", "Password1").Body.Close()

	base, err := url.Parse(c.server.URL)
	require.NoError(t, err)

	cookies := c.http.Jar.Cookies(base)
	require.NotEmpty(t, cookies)
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName {
			cookie.Value = strings.Replace(cookie.Value, ".", "x.", 1)
		}
	}
	c.http.Jar.SetCookies(base, cookies)

	resp := c.get("/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestHealthEndpoints(t *testing.T) {
	c := newTestServer(t)

	resp := c.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", readBody(t, resp))

	resp = c.get("/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", readBody(t, resp))
}
