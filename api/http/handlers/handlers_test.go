package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	apihttp "github.com/msulikowski96-cmd/newcvtoai/api/http"
	"github.com/msulikowski96-cmd/newcvtoai/api/http/handlers"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/account"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/ai"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/avatar"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/health"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/history"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/session"
)

// --- in-memory fakes ---

type memAccounts struct {
	byEmail map[string]account.Account
	nextID  int64
}

func (m *memAccounts) Create(ctx context.Context, a account.Account) (account.Account, error) {
	if _, ok := m.byEmail[a.Email]; ok {
		return account.Account{}, errors.New("unique violation")
	}
	a.ID = m.nextID
	m.nextID++
	m.byEmail[a.Email] = a
	return a, nil
}

func (m *memAccounts) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *memAccounts) GetByID(ctx context.Context, id int64) (account.Account, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (m *memAccounts) UpdateProfile(ctx context.Context, id int64, u account.ProfileUpdate) error {
	for email, a := range m.byEmail {
		if a.ID != id {
			continue
		}
		if u.Name != nil {
			a.Name = *u.Name
		}
		if u.Bio != nil {
			a.Bio = *u.Bio
		}
		if u.Theme != nil {
			a.Theme = *u.Theme
		}
		if u.TargetRole != nil {
			a.TargetRole = *u.TargetRole
		}
		if u.Preferences != nil {
			a.Preferences = *u.Preferences
		}
		m.byEmail[email] = a
		return nil
	}
	return account.ErrNotFound
}

func (m *memAccounts) SetAvatar(ctx context.Context, id int64, ref string) error {
	for email, a := range m.byEmail {
		if a.ID == id {
			a.Avatar = ref
			m.byEmail[email] = a
			return nil
		}
	}
	return account.ErrNotFound
}

type memSessions struct {
	rows map[string]session.Session
}

func (m *memSessions) Create(ctx context.Context, s session.Session) error {
	m.rows[s.ID] = s
	return nil
}

func (m *memSessions) Get(ctx context.Context, id string) (session.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return session.Session{}, session.ErrNoSession
	}
	return s, nil
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

type memHistory struct {
	records []history.Record
	nextID  int64
}

func (m *memHistory) Insert(ctx context.Context, r history.Record) (int64, error) {
	r.ID = m.nextID
	m.nextID++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	m.records = append(m.records, r)
	return r.ID, nil
}

func (m *memHistory) ListByOwner(ctx context.Context, accountID int64) ([]history.Record, error) {
	out := []history.Record{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].AccountID == accountID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *memHistory) DeleteOwned(ctx context.Context, accountID, id int64) error {
	for i, r := range m.records {
		if r.ID == id && r.AccountID == accountID {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type stubAnalyzer struct {
	result ai.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, cvText, jobDescription string) (ai.AnalysisResult, error) {
	if s.err != nil {
		return ai.AnalysisResult{}, s.err
	}
	return s.result, nil
}

type env struct {
	app      *fiber.App
	accounts *memAccounts
	history  *memHistory
	analyzer *stubAnalyzer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	accounts := &memAccounts{byEmail: map[string]account.Account{}, nextID: 1}
	sessions := &memSessions{rows: map[string]session.Session{}}
	hist := &memHistory{nextID: 1}
	analyzer := &stubAnalyzer{result: ai.AnalysisResult{SchemaVersion: ai.SchemaVersion, MatchScore: 75, Summary: "ok"}}

	avatars, err := avatar.NewStore(t.TempDir())
	require.NoError(t, err)

	manager := session.NewManager(sessions, "test-secret", "newcvtoai", time.Hour)

	app := fiber.New()
	apihttp.Register(app,
		handlers.NewAuthHandler(account.NewService(accounts), manager),
		handlers.NewProfileHandler(account.NewService(accounts), avatars),
		handlers.NewHistoryHandler(history.NewService(hist)),
		handlers.NewAnalyzeHandler(analyzer),
		handlers.NewHealthHandler(health.NewService()),
		session.NewMiddleware(manager),
		avatars.Dir(),
	)
	return &env{app: app, accounts: accounts, history: hist, analyzer: analyzer}
}

func (e *env) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func (e *env) register(t *testing.T, email, password, name string) *http.Cookie {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register",
		fiber.Map{"email": email, "password": password, "name": name}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := sessionCookie(resp)
	require.NotNil(t, c, "register must set a session cookie")
	return c
}

// --- auth ---

func TestRegisterReturnsAccountAndCookie(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "alice@example.com", "password": "pw1", "name": "Alice"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, sessionCookie(resp))

	body := decode(t, resp)
	require.Equal(t, float64(1), body["id"])
	require.Equal(t, "alice@example.com", body["email"])
	require.Equal(t, "Alice", body["name"])
	_, hasPassword := body["password"]
	require.False(t, hasPassword, "password must never be returned")
	_, hasHash := body["passwordHash"]
	require.False(t, hasHash, "hash must never be returned")
}

func TestRegisterDuplicateEmailIs400(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "alice@example.com", "password": "different", "name": "Imposter"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPasswordIs401WithoutCookie(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/auth/login",
		fiber.Map{"email": "alice@example.com", "password": "pw2"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Nil(t, sessionCookie(resp), "failed login must not set a session cookie")
}

func TestMeRequiresSession(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := e.register(t, "alice@example.com", "pw1", "Alice")
	resp = e.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice@example.com", decode(t, resp)["email"])
}

func TestLogoutRevokesSessionAndIsIdempotent(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Second logout with the dead cookie still succeeds.
	resp = e.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// --- profile ---

func TestProfileUpdateIsPartial(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/profile/update",
		fiber.Map{"bio": "hello", "theme": "dark"}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	body := decode(t, resp)
	require.Equal(t, "hello", body["bio"])
	require.Equal(t, "dark", body["theme"])
	require.Equal(t, "Alice", body["name"], "unspecified field must retain prior value")
}

func TestProfileUpdateRejectsUnknownTheme(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/profile/update", fiber.Map{"theme": "neon"}, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartAvatar(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestAvatarUpload(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	body, contentType := multipartAvatar(t, "avatar", "me.png", "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	resp, err := e.app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	ref, _ := out["avatar"].(string)
	require.Contains(t, ref, avatar.PublicPrefix)

	// The reference is persisted on the account.
	resp = e.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, ref, decode(t, resp)["avatar"])
}

func TestAvatarUploadRejectsNonImage(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	body, contentType := multipartAvatar(t, "avatar", "cv.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	resp, err := e.app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- history ---

func TestHistorySaveWithoutLoginIs401AndWritesNothing(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/history/save",
		fiber.Map{"cvText": "cv", "jobDescription": "jd", "analysis": fiber.Map{"matchScore": 50}}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, e.history.records, "no row may be written for anonymous save")
}

func TestHistorySaveListRoundTrip(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/history/save",
		fiber.Map{"cvText": "my cv", "jobDescription": "the job", "analysis": fiber.Map{"matchScore": 82, "summary": "fit"}}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/history", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	require.Equal(t, "my cv", records[0]["cvText"])
	require.Equal(t, "the job", records[0]["jobDescription"])
	analysis, ok := records[0]["analysis"].(map[string]any)
	require.True(t, ok, "analysis must come back parsed, got %T", records[0]["analysis"])
	require.Equal(t, float64(82), analysis["matchScore"])
	require.Equal(t, float64(1), records[0]["schemaVersion"])
}

func TestHistoryDeleteOwnRecord(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/history/save",
		fiber.Map{"cvText": "cv", "jobDescription": "jd", "analysis": fiber.Map{}}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/history/1", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/history", nil, cookie)
	var records []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Empty(t, records)
}

func TestHistoryForeignDeleteReportsSuccessButLeavesRecord(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	alice := e.register(t, "alice@example.com", "pw1", "Alice")
	bob := e.register(t, "bob@example.com", "pw2", "Bob")

	resp := e.do(t, http.MethodPost, "/api/history/save",
		fiber.Map{"cvText": "cv", "jobDescription": "jd", "analysis": fiber.Map{}}, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Bob deletes Alice's record id: success reported, record intact, and
	// indistinguishable from deleting a non-existent id.
	resp = e.do(t, http.MethodDelete, "/api/history/1", nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodDelete, "/api/history/999", nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/history", nil, alice)
	var records []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
}

func TestHistoryIsOwnerScoped(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	alice := e.register(t, "alice@example.com", "pw1", "Alice")
	bob := e.register(t, "bob@example.com", "pw2", "Bob")

	resp := e.do(t, http.MethodPost, "/api/history/save",
		fiber.Map{"cvText": "alice cv", "jobDescription": "jd", "analysis": fiber.Map{}}, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/history", nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Empty(t, records, "bob must never see alice's records")
}

// --- analyze ---

func TestAnalyzeReturnsStructuredResult(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/analyze",
		fiber.Map{"cvText": "cv", "jobDescription": "jd"}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, float64(75), body["matchScore"])
}

func TestAnalyzeUpstreamFailureIs503(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")
	e.analyzer.err = ai.ErrUnavailable

	resp := e.do(t, http.MethodPost, "/api/analyze",
		fiber.Map{"cvText": "cv", "jobDescription": "jd"}, cookie)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAnalyzeValidatesInput(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	cookie := e.register(t, "alice@example.com", "pw1", "Alice")

	resp := e.do(t, http.MethodPost, "/api/analyze", fiber.Map{"cvText": ""}, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- health ---

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/api/ready", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
