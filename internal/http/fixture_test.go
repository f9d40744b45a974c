package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
	authmocks "github.com/target/blogger-api/internal/mocks/auth"
	"github.com/target/blogger-api/internal/observability/statsd"
	"github.com/target/blogger-api/internal/service"
)

const (
	testSecret   = "httpx-test-secret"
	testPassword = "Sup3r$ecret"
)

type apiFixture struct {
	handler  http.Handler
	users    *authmocks.MemoryUserRepository
	history  *authmocks.MemoryPasswordHistory
	wellness *authmocks.MemoryWellnessRepository
	mailer   *authmocks.RecordingMailer
	denylist *authmocks.MemoryDenylist
	tokens   *service.TokenService
	auth     *service.AuthService
	metrics  *statsd.Recorder
}

func newAPIFixture(t *testing.T, pingers ...Pinger) *apiFixture {
	t.Helper()
	f := &apiFixture{
		users:    authmocks.NewMemoryUserRepository(),
		history:  authmocks.NewMemoryPasswordHistory(),
		wellness: authmocks.NewMemoryWellnessRepository(),
		mailer:   &authmocks.RecordingMailer{},
		denylist: authmocks.NewMemoryDenylist(),
		metrics:  &statsd.Recorder{},
	}
	tokens, err := service.NewTokenService(service.TokenServiceOptions{Secret: testSecret, Denylist: f.denylist})
	require.NoError(t, err)
	f.tokens = tokens

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	passwords := service.NewPasswordService(service.PasswordServiceOptions{
		Hasher:       authmocks.PlainHasher{},
		History:      f.history,
		Requirements: domainauth.DefaultPasswordRequirements(),
	})
	f.auth = service.NewAuthService(service.AuthServiceOptions{
		Users:      f.users,
		Passwords:  passwords,
		Tokens:     tokens,
		Mailer:     f.mailer,
		AppBaseURL: "https://blog.example.com",
		Logger:     logger,
	})
	f.handler = NewRouter(RouterServices{
		Auth:       f.auth,
		Authorizer: service.NewAuthorizer(tokens),
		Tokens:     tokens,
		Wellness:   service.NewWellnessService(service.WellnessServiceOptions{Repo: f.wellness, Users: f.users, Logger: logger}),
		Users:      service.NewUserService(service.UserServiceOptions{Repo: f.users, Logger: logger}),
		Health:     pingers,
		Logger:     logger,
		Metrics:    f.metrics,
	})
	return f
}

type requestOpts struct {
	token  string
	cookie string
	header http.Header
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, opts requestOpts) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range opts.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.cookie != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: opts.cookie})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	// Mail goes out in the background; settle it so assertions see it.
	f.auth.WaitForMail()
	return rec
}

// signup registers an account over HTTP and returns its id and session token.
func (f *apiFixture) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": email, "name": "Test User", "password": testPassword}, requestOpts{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess struct {
		User  domainauth.User `json:"user"`
		Token string          `json:"token"`
	}
	decodeBody(t, rec, &sess)
	return sess.User.ID, sess.Token
}

// tokenAs creates an account with role and returns its id and a session token carrying that role.
func (f *apiFixture) tokenAs(t *testing.T, email string, role domainauth.Role) (string, string) {
	t.Helper()
	id, _ := f.signup(t, email)
	f.users.SetRole(id, role)
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	tok, err := f.tokens.IssueSessionToken(*u)
	require.NoError(t, err)
	return id, tok
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decodeBody(t, rec, &body)
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == TokenCookieName {
			return c
		}
	}
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
