package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devlinks/adapters/inmem"
	"github.com/khoahotran/devlinks/adapters/persistence"
	"github.com/khoahotran/devlinks/adapters/web"
	"github.com/khoahotran/devlinks/internal/application/identity"
	"github.com/khoahotran/devlinks/internal/application/service"
	analyticsUC "github.com/khoahotran/devlinks/internal/application/usecase/analytics"
	authUC "github.com/khoahotran/devlinks/internal/application/usecase/auth"
	linkUC "github.com/khoahotran/devlinks/internal/application/usecase/link"
	profileUC "github.com/khoahotran/devlinks/internal/application/usecase/profile"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/auth"
	"github.com/khoahotran/devlinks/pkg/logger"
)

const testBaseURL = "http://devlinks.test"

// countingStore records reads so tests can assert that nothing was loaded.
type countingStore struct {
	*inmem.DocumentStore
	reads atomic.Int64
}

func (s *countingStore) Get(ctx context.Context, coll, key string) (*service.Document, error) {
	s.reads.Add(1)
	return s.DocumentStore.Get(ctx, coll, key)
}

func (s *countingStore) Query(ctx context.Context, coll string, f service.FieldEquals) ([]*service.Document, error) {
	s.reads.Add(1)
	return s.DocumentStore.Query(ctx, coll, f)
}

type testApp struct {
	router *gin.Engine
	store  *countingStore
	signup *authUC.SignupUseCase
}

func newTestApp(restorer identity.SessionRestorer, jwtSvc *auth.JWTService, users *inmem.UserRepo, timeout time.Duration) *testApp {
	log := logger.NewNop()
	store := &countingStore{DocumentStore: inmem.NewDocumentStore()}
	blobs := inmem.NewBlobStore(testBaseURL + "/blobs")
	profileRepo := persistence.NewDocumentProfileRepo(store, log)
	linkRepo := persistence.NewDocumentLinkRepo(store, log)
	theme := web.DefaultTheme()
	session := SessionOptions{RestoreTimeout: timeout, TokenLifespan: jwtSvc.TokenLifespan()}

	loadUC := profileUC.NewLoadProfileUseCase(profileRepo, linkRepo, log)
	saveUC := profileUC.NewSaveProfileUseCase(profileRepo, blobs, nil, log)
	linkUseCase := linkUC.NewLinkUseCase(linkRepo, log)
	viewsUC := analyticsUC.NewViewCountUseCase(inmem.NewViewCounter())
	signupUC := authUC.NewSignupUseCase(users, jwtSvc, log)

	router := NewRouter(RouterDeps{
		Logger:   log,
		Restorer: restorer,
		Session:  session,
		Auth:     NewAuthHandler(authUC.NewLoginUseCase(users, jwtSvc, log), signupUC, session, theme, log),
		Profile:  NewProfileHandler(loadUC, saveUC, log),
		Links:    NewLinkHandler(linkUseCase, log),
		Editor:   NewEditorHandler(loadUC, saveUC, linkUseCase, viewsUC, theme, testBaseURL, log),
		Preview:  NewPreviewHandler(loadUC, nil, theme, testBaseURL, log),
		Blobs:    NewBlobHandler(blobs),
	})
	return &testApp{router: router, store: store, signup: signupUC}
}

type AuthE2ETestSuite struct {
	suite.Suite
	app      *testApp
	ownerID  uuid.UUID
	token    string
	testPass string
}

func (s *AuthE2ETestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	users := inmem.NewUserRepo()
	jwtSvc := auth.NewJWTService("e2e-secret", time.Hour)
	restorer := authUC.NewSessionService(jwtSvc, inmem.NewSessionStore(), logger.NewNop())
	s.app = newTestApp(restorer, jwtSvc, users, time.Second)

	s.testPass = "e2e_test_password_123"
	out, err := s.app.signup.Execute(context.Background(), authUC.SignupInput{Email: "e2e_test@example.com", Password: s.testPass})
	s.Require().NoError(err)
	s.ownerID = out.User.ID
	s.token = out.AccessToken
}

func TestAuthE2E(t *testing.T) {
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.app.router.ServeHTTP(rr, req)
	return rr
}

func (s *AuthE2ETestSuite) withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: s.token})
	return req
}

func (s *AuthE2ETestSuite) profileForm(fields map[string]string, img []byte) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	if img != nil {
		part, err := w.CreateFormFile("image", "avatar.png")
		s.Require().NoError(err)
		_, err = part.Write(img)
		s.Require().NoError(err)
	}
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/editor", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.withSession(req)
}

func (s *AuthE2ETestSuite) getProfile() ProfileDTO {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rr := s.do(req)
	s.Require().Equal(http.StatusOK, rr.Code)
	var dto ProfileDTO
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &dto))
	return dto
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func (s *AuthE2ETestSuite) Test_Login_Flow() {

	bodyBad, _ := json.Marshal(gin.H{"email": "e2e_test@example.com", "password": "wrongpassword"})
	reqBad := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(bodyBad))
	reqBad.Header.Set("Content-Type", "application/json")

	rrBad := s.do(reqBad)
	assert.Equal(s.T(), http.StatusUnauthorized, rrBad.Code)

	bodyGood, _ := json.Marshal(gin.H{"email": "e2e_test@example.com", "password": s.testPass})
	reqGood := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(bodyGood))
	reqGood.Header.Set("Content-Type", "application/json")

	rrGood := s.do(reqGood)
	assert.Equal(s.T(), http.StatusOK, rrGood.Code)

	var loginResponse map[string]string
	json.Unmarshal(rrGood.Body.Bytes(), &loginResponse)
	accessToken := loginResponse["access_token"]
	assert.NotEmpty(s.T(), accessToken)

	reqAuth := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	reqAuth.Header.Set("Authorization", "Bearer "+accessToken)
	assert.Equal(s.T(), http.StatusOK, s.do(reqAuth).Code)

	reqNoAuth := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, s.do(reqNoAuth).Code)
}

func (s *AuthE2ETestSuite) Test_LoginForm_SetsCookie() {
	form := url.Values{"email": {"e2e_test@example.com"}, "password": {s.testPass}, "next": {"/preview"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := s.do(req)

	s.Equal(http.StatusSeeOther, rr.Code)
	s.Equal("/preview", rr.Header().Get("Location"))
	s.Contains(rr.Header().Get("Set-Cookie"), SessionCookieName+"=")
	s.Contains(rr.Header().Get("Set-Cookie"), "HttpOnly")

	form.Set("password", "nope")
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = s.do(req)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Contains(rr.Body.String(), "Email or password is incorrect")
}

func (s *AuthE2ETestSuite) Test_LoginForm_OffSiteNextFallsBackToEditor() {
	for _, next := range []string{"//evil.com", "/\\evil.com", "/\\/evil.com", "https://evil.com", "evil.com"} {
		form := url.Values{"email": {"e2e_test@example.com"}, "password": {s.testPass}, "next": {next}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := s.do(req)

		s.Equal(http.StatusSeeOther, rr.Code, next)
		s.Equal("/editor", rr.Header().Get("Location"), next)
	}
}

func (s *AuthE2ETestSuite) Test_SignupForm_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("email=%zz&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := s.do(req)

	s.Equal(http.StatusBadRequest, rr.Code)
	s.Contains(rr.Body.String(), `data-testid="form-error"`)
	s.Empty(rr.Header().Get("Set-Cookie"))
}

func (s *AuthE2ETestSuite) Test_Preview_Unauthenticated_NoReads() {
	rr := s.do(httptest.NewRequest(http.MethodGet, "/preview", nil))

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "Please log in to continue.")
	s.Contains(rr.Body.String(), `href="/login"`)
	s.Zero(s.app.store.reads.Load())
}

func (s *AuthE2ETestSuite) Test_Editor_RedirectsWhenSignedOut() {
	rr := s.do(httptest.NewRequest(http.MethodGet, "/editor", nil))
	s.Equal(http.StatusSeeOther, rr.Code)
	s.Equal("/login?next=/editor", rr.Header().Get("Location"))
}

func (s *AuthE2ETestSuite) Test_Editor_SaveAndPreview() {
	rr := s.do(s.profileForm(map[string]string{"firstName": "Ben", "lastName": "Wright", "email": "ben@example.com"}, nil))

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), web.NoticeSaved)
	s.Contains(rr.Body.String(), `value="Ben"`)

	rr = s.do(s.withSession(httptest.NewRequest(http.MethodGet, "/preview", nil)))
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "Ben Wright")
	s.Contains(rr.Body.String(), "ben@example.com")
	s.Contains(rr.Body.String(), testBaseURL+"/p/"+s.ownerID.String())

	dto := s.getProfile()
	s.Equal("Ben", dto.FirstName)
	s.Nil(dto.ImageURL)
}

func (s *AuthE2ETestSuite) Test_Editor_InvalidInputIsNotWritten() {
	rr := s.do(s.profileForm(map[string]string{"firstName": "", "lastName": "Wright", "email": "not-an-email"}, nil))

	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	s.Contains(body, "Can&#39;t be empty")
	s.Contains(body, profile.MsgInvalidEmail)
	s.Contains(body, `value="not-an-email"`)
	s.NotContains(body, web.NoticeSaved)

	_, err := s.app.store.DocumentStore.Get(context.Background(), profile.Collection, s.ownerID.String())
	s.ErrorIs(err, service.ErrDocumentNotFound)
}

func (s *AuthE2ETestSuite) Test_Editor_ResaveKeepsAvatar() {
	fields := map[string]string{"firstName": "Ben", "lastName": "Wright", "email": ""}
	rr := s.do(s.profileForm(fields, pngBytes(s.T(), 32, 32)))
	s.Require().Equal(http.StatusOK, rr.Code)

	first := s.getProfile()
	s.Require().NotNil(first.ImageURL)
	s.Contains(*first.ImageURL, "/blobs/profile_images/"+s.ownerID.String())

	fields["lastName"] = "Wrightson"
	rr = s.do(s.profileForm(fields, nil))
	s.Require().Equal(http.StatusOK, rr.Code)

	second := s.getProfile()
	s.Require().NotNil(second.ImageURL)
	s.Equal(*first.ImageURL, *second.ImageURL)
	s.Equal("Wrightson", second.LastName)

	blobPath := strings.TrimPrefix(*second.ImageURL, testBaseURL)
	rr = s.do(httptest.NewRequest(http.MethodGet, blobPath, nil))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal("image/png", rr.Header().Get("Content-Type"))
}

func (s *AuthE2ETestSuite) Test_Editor_RejectsLargeImage() {
	rr := s.do(s.profileForm(map[string]string{"firstName": "Ben", "lastName": "Wright"}, pngBytes(s.T(), 1200, 20)))
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Contains(rr.Body.String(), profile.MsgInvalidImage)
}

func (s *AuthE2ETestSuite) Test_Links_API_And_Preview() {
	urls := []string{"https://github.com/ben", "https://www.youtube.com/@ben", "https://example.com/ben"}
	platforms := []string{"GitHub", "YouTube", "Blog"}
	for i := range urls {
		body, _ := json.Marshal(gin.H{"platform": platforms[i], "url": urls[i]})
		req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.token)
		s.Require().Equal(http.StatusCreated, s.do(req).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rr := s.do(req)
	var list struct {
		Data []LinkDTO `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &list))
	s.Require().Len(list.Data, 3)
	s.Equal("Other", list.Data[2].Platform)

	rr = s.do(s.withSession(httptest.NewRequest(http.MethodGet, "/preview", nil)))
	s.Equal(3, strings.Count(rr.Body.String(), `data-testid="link-row"`))
	for _, u := range urls {
		s.Contains(rr.Body.String(), `href="`+u+`"`)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/links/"+list.Data[0].ID, nil)
	del.Header.Set("Authorization", "Bearer "+s.token)
	s.Equal(http.StatusNoContent, s.do(del).Code)

	del = httptest.NewRequest(http.MethodDelete, "/api/links/"+list.Data[0].ID, nil)
	del.Header.Set("Authorization", "Bearer "+s.token)
	s.Equal(http.StatusNotFound, s.do(del).Code)

	bad, _ := json.Marshal(gin.H{"platform": "GitHub", "url": "not a url"})
	req = httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewBuffer(bad))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	s.Equal(http.StatusBadRequest, s.do(req).Code)
}

func (s *AuthE2ETestSuite) Test_EditorLinkForm() {
	form := url.Values{"platform": {"LinkedIn"}, "url": {"https://linkedin.com/in/ben"}}
	req := httptest.NewRequest(http.MethodPost, "/editor/links", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := s.do(s.withSession(req))
	s.Equal(http.StatusSeeOther, rr.Code)

	rr = s.do(s.withSession(httptest.NewRequest(http.MethodGet, "/editor", nil)))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal(1, strings.Count(rr.Body.String(), `data-testid="editor-link"`))
}

func (s *AuthE2ETestSuite) Test_Share_Page() {
	s.Require().Equal(http.StatusOK, s.do(s.profileForm(map[string]string{"firstName": "Ben", "lastName": "Wright"}, nil)).Code)

	rr := s.do(httptest.NewRequest(http.MethodGet, "/p/"+s.ownerID.String(), nil))
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "Ben Wright")

	rr = s.do(httptest.NewRequest(http.MethodGet, "/p/not-a-uuid", nil))
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *AuthE2ETestSuite) Test_Logout_RevokesSession() {
	rr := s.do(s.withSession(httptest.NewRequest(http.MethodPost, "/logout", nil)))
	s.Equal(http.StatusSeeOther, rr.Code)
	s.Contains(rr.Header().Get("Set-Cookie"), SessionCookieName+"=;")

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	s.Equal(http.StatusUnauthorized, s.do(req).Code)
}

// slowRestorer never answers before the request deadline.
type slowRestorer struct{}

func (slowRestorer) RestoreSession(ctx context.Context, _ string) (*identity.Identity, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowRestorer) RevokeSession(context.Context, string) error { return nil }

func TestEditor_RestoreTimeoutShowsSpinner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := auth.NewJWTService("secret", time.Hour)
	app := newTestApp(slowRestorer{}, jwtSvc, inmem.NewUserRepo(), 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/editor", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "anything"})
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-testid="spinner"`)
	assert.Contains(t, rr.Body.String(), `http-equiv="refresh"`)
	assert.Zero(t, app.store.reads.Load())
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                  "/editor",
		"/preview":          "/preview",
		"/editor?tab=links": "/editor?tab=links",
		"//evil.com":        "/editor",
		"/\\evil.com":       "/editor",
		"/\\/evil.com":      "/editor",
		"https://evil.com":  "/editor",
		"javascript:alert":  "/editor",
		"editor":            "/editor",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), in)
	}
}
