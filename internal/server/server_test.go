package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/mailer"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/testutil"
)

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	fixtures *testutil.Fixtures
	notifier *mailer.Notifier
	sent     *capturingSender
}

type capturingSender struct {
	messages chan mailer.Message
}

func (s *capturingSender) Send(_ context.Context, msg mailer.Message) error {
	s.messages <- msg
	return nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	issuer := testutil.NewIssuer()
	fixtures := testutil.Seed(t, db, issuer)

	sent := &capturingSender{messages: make(chan mailer.Message, 10)}
	notifier := mailer.NewNotifier(sent, zap.NewNop(), 0)

	return &testServer{
		router: New(Dependencies{
			DB:       db,
			Tokens:   issuer,
			Notifier: notifier,
			Log:      zap.NewNop(),
		}),
		db:       db,
		fixtures: fixtures,
		notifier: notifier,
		sent:     sent,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSignupScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users", "", map[string]any{
		"name":     "Bruno",
		"email":    "bbigotto@gmail.com",
		"password": "123456789",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "123456789")

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	tokens, err := repository.NewUserRepository(s.db).ListTokens(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, resp.Token, tokens[0].Token)

	var stored models.User
	require.NoError(t, s.db.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(t, "123456789", stored.PasswordHash)

	s.notifier.Wait()
	msg := <-s.sent.messages
	assert.Equal(t, "bbigotto@gmail.com", msg.ToEmail)
	assert.Equal(t, "Welcome to the Task Manager", msg.Subject)
	assert.Contains(t, msg.Text, "Bruno")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)

	wrongPassword := s.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "mike@example.com", "password": "not-the-password-1",
	})
	noSuchUser := s.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "nobody@example.com", "password": testutil.UserOnePassword,
	})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, noSuchUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), noSuchUser.Body.String())
}

func TestPatchProfileUnknownFieldScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPatch, "/users/me", s.fixtures.UserOneToken, map[string]any{"location": "Jales"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnauthenticatedDeleteScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDeleteAccountCascadesAndSendsCancellation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/users/me", s.fixtures.UserOneToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var owned int64
	require.NoError(t, s.db.Model(&models.Task{}).Where("owner_id = ?", s.fixtures.UserOne.ID).Count(&owned).Error)
	assert.Zero(t, owned)

	s.notifier.Wait()
	msg := <-s.sent.messages
	assert.Equal(t, "Sorry to see you go!", msg.Subject)
}

func TestAvatarUploadScenario(t *testing.T) {
	s := newTestServer(t)

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("avatar", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+s.fixtures.UserOneToken)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w := upload("notes.txt", []byte("not an image at all"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, image.NewRGBA(image.Rect(0, 0, 120, 80)), nil))
	w = upload("profile-pic.jpg", jpg.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, s.db.First(&stored, "id = ?", s.fixtures.UserOne.ID).Error)
	assert.NotEmpty(t, stored.Avatar)

	w = s.do(t, http.MethodGet, "/users/"+s.fixtures.UserOne.ID+"/avatar", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, stored.Avatar, w.Body.Bytes())
}

func TestTaskOwnershipIsolation(t *testing.T) {
	s := newTestServer(t)
	foreign := "/tasks/" + s.fixtures.TaskOne.ID
	token := s.fixtures.UserTwoToken

	w := s.do(t, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), s.fixtures.TaskOne.ID)
	assert.Contains(t, w.Body.String(), s.fixtures.TaskThree.ID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, foreign, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPatch, foreign, token, map[string]any{"completed": true}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, foreign, token, nil).Code)

	var task models.Task
	require.NoError(t, s.db.First(&task, "id = ?", s.fixtures.TaskOne.ID).Error)
	assert.False(t, task.Completed)
}

func TestLogoutScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "jess@example.com", "password": testutil.UserTwoPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/users/logout", s.fixtures.UserTwoToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", s.fixtures.UserTwoToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/users/me", login.Token, nil).Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/users/logout/all", login.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/users/me", login.Token, nil).Code)
}
