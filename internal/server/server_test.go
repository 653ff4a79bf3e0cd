package server

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finledger/internal/config"
	"finledger/internal/repository"
	"finledger/internal/session"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Env = "development"
	cfg.Database.Driver = "memory"
	cfg.Auth.JWTSecret = "test-secret"

	accessLog := logrus.New()
	accessLog.SetOutput(io.Discard)

	srv := NewServer(cfg, repository.NewInMemoryUserRepository(), repository.NewInMemoryRecordRepository(), zap.NewNop(), accessLog)
	return srv.Handler()
}

func registerUser(t *testing.T, h http.Handler, email, password string) {
	t.Helper()
	apitest.New().
		Handler(h).
		Post("/api/auth/register").
		JSON(fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)).
		Expect(t).
		Status(http.StatusCreated).
		End()
}

func loginCookie(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	result := apitest.New().
		Handler(h).
		Post("/api/auth/login").
		JSON(fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)).
		Expect(t).
		Status(http.StatusOK).
		CookiePresent(session.CookieName).
		End()

	for _, c := range result.Response.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set on login response")
	return ""
}

func TestPing(t *testing.T) {
	apitest.New().
		Handler(newTestHandler(t)).
		Get("/ping").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "pong")).
		End()
}

func TestRegister(t *testing.T) {
	h := newTestHandler(t)

	apitest.New().
		Handler(h).
		Post("/api/auth/register").
		JSON(`{"email":"user@example.com","password":"secret6"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.email`, "user@example.com")).
		Assert(jsonpath.Present(`$.id`)).
		End()
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newTestHandler(t)
	registerUser(t, h, "user@example.com", "secret6")

	apitest.New().
		Handler(h).
		Post("/api/auth/register").
		JSON(`{"email":"user@example.com","password":"other66"}`).
		Expect(t).
		Status(http.StatusConflict).
		End()
}

func TestRegister_Validation(t *testing.T) {
	h := newTestHandler(t)

	// Malformed email.
	apitest.New().
		Handler(h).
		Post("/api/auth/register").
		JSON(`{"email":"not-an-email","password":"secret6"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.details[0].field`, "Email")).
		End()

	// Password shorter than six characters.
	apitest.New().
		Handler(h).
		Post("/api/auth/register").
		JSON(`{"email":"user@example.com","password":"short"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.details[0].field`, "Password")).
		End()
}

func TestLoginFlow_CookieResolvesIdentity(t *testing.T) {
	h := newTestHandler(t)
	registerUser(t, h, "user@example.com", "secret6")
	cookie := loginCookie(t, h, "user@example.com", "secret6")

	apitest.New().
		Handler(h).
		Get("/api/auth/me").
		Cookies(apitest.NewCookie(session.CookieName).Value(cookie)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.user.email`, "user@example.com")).
		End()
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestHandler(t)
	registerUser(t, h, "user@example.com", "secret6")

	apitest.New().
		Handler(h).
		Post("/api/auth/login").
		JSON(`{"email":"user@example.com","password":"wrong-password"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		CookieNotPresent(session.CookieName).
		Assert(jsonpath.Equal(`$.error`, "Invalid email or password")).
		End()
}

func TestLogin_UnknownEmail_SameResponse(t *testing.T) {
	h := newTestHandler(t)

	// Unknown email and wrong password are indistinguishable on the wire.
	apitest.New().
		Handler(h).
		Post("/api/auth/login").
		JSON(`{"email":"nobody@example.com","password":"secret6"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		CookieNotPresent(session.CookieName).
		Assert(jsonpath.Equal(`$.error`, "Invalid email or password")).
		End()
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newTestHandler(t)

	result := apitest.New().
		Handler(h).
		Post("/api/auth/logout").
		Expect(t).
		Status(http.StatusOK).
		End()

	cleared := false
	for _, c := range result.Response.Cookies() {
		if c.Name == session.CookieName {
			cleared = c.Value == "" && c.MaxAge < 0
		}
	}
	require.True(t, cleared, "logout must overwrite the cookie with an immediately expiring one")

	// A request carrying the now-empty cookie resolves to anonymous.
	apitest.New().
		Handler(h).
		Get("/api/auth/me").
		Cookies(apitest.NewCookie(session.CookieName).Value("")).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	h := newTestHandler(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/finance"},
		{http.MethodPost, "/api/finance"},
		{http.MethodGet, "/api/finance/summary"},
	} {
		req := apitest.New().Handler(h)
		var expect *apitest.Response
		if route.method == http.MethodPost {
			expect = req.Post(route.path).JSON(`{}`).Expect(t)
		} else {
			expect = req.Get(route.path).Expect(t)
		}
		expect.Status(http.StatusUnauthorized).End()
	}
}

func TestFinanceFlow(t *testing.T) {
	h := newTestHandler(t)
	registerUser(t, h, "user@example.com", "secret6")
	cookie := loginCookie(t, h, "user@example.com", "secret6")
	authed := apitest.NewCookie(session.CookieName).Value(cookie)

	apitest.New().
		Handler(h).
		Post("/api/finance").
		Cookies(authed).
		JSON(`{"month":"2026-01","income":5000,"expense":3200}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.record.month`, "2026-01")).
		Assert(jsonpath.Equal(`$.record.debt`, float64(0))).
		End()

	apitest.New().
		Handler(h).
		Post("/api/finance").
		Cookies(authed).
		JSON(`{"month":"2026-02","income":1000,"expense":1750}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.record.debt`, float64(750))).
		End()

	// Latest month first.
	apitest.New().
		Handler(h).
		Get("/api/finance").
		Cookies(authed).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$.records`, 2)).
		Assert(jsonpath.Equal(`$.records[0].month`, "2026-02")).
		Assert(jsonpath.Equal(`$.records[1].month`, "2026-01")).
		End()

	apitest.New().
		Handler(h).
		Get("/api/finance/summary").
		Cookies(authed).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.summary.months`, float64(2))).
		Assert(jsonpath.Equal(`$.summary.total_income`, float64(6000))).
		Assert(jsonpath.Equal(`$.summary.total_expense`, float64(4950))).
		Assert(jsonpath.Equal(`$.summary.total_debt`, float64(750))).
		End()
}

func TestFinance_DuplicateMonth(t *testing.T) {
	h := newTestHandler(t)
	registerUser(t, h, "user@example.com", "secret6")
	cookie := loginCookie(t, h, "user@example.com", "secret6")
	authed := apitest.NewCookie(session.CookieName).Value(cookie)

	apitest.New().
		Handler(h).
		Post("/api/finance").
		Cookies(authed).
		JSON(`{"month":"2026-01","income":100,"expense":50}`).
		Expect(t).
		Status(http.StatusCreated).
		End()

	apitest.New().
		Handler(h).
		Post("/api/finance").
		Cookies(authed).
		JSON(`{"month":"2026-01","income":200,"expense":75}`).
		Expect(t).
		Status(http.StatusConflict).
		End()
}

func TestFinance_InvalidMonth(t *testing.T) {
	h := newTestHandler(t)
	registerUser(t, h, "user@example.com", "secret6")
	cookie := loginCookie(t, h, "user@example.com", "secret6")

	apitest.New().
		Handler(h).
		Post("/api/finance").
		Cookies(apitest.NewCookie(session.CookieName).Value(cookie)).
		JSON(`{"month":"January 2026","income":100,"expense":50}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestFinance_TamperedCookie(t *testing.T) {
	h := newTestHandler(t)

	apitest.New().
		Handler(h).
		Get("/api/finance").
		Cookies(apitest.NewCookie(session.CookieName).Value("not-a-valid-token")).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}
