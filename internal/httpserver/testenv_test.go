package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repo"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/tokens"
)

type testEnv struct {
	t      *testing.T
	e      *echo.Echo
	db     *gorm.DB
	issuer *tokens.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	logger := logging.New("error")
	issuer := tokens.NewIssuer([]byte("test-jwt-secret"), 15*time.Minute, 24*time.Hour)
	rp := &repo.GormRepo{DB: db}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(middleware.RequestID())

	deps := Deps{
		DB:     db,
		Issuer: issuer,
		Auth:   &AuthHTTP{Svc: &service.AuthService{Repo: rp, Issuer: issuer}},
		Tasks:  &TaskHTTP{Svc: &service.TaskService{Repo: rp}},
		Users:  &UserHTTP{Svc: &service.UserService{Repo: rp}},
	}
	Register(e, &deps)

	return &testEnv{t: t, e: e, db: db, issuer: issuer}
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) map[string]any {
	env.t.Helper()

	var out map[string]any
	require.NoError(env.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register creates a user through the API and returns (userID, access,
// refresh).
func (env *testEnv) register(name, email, password string) (string, string, string) {
	env.t.Helper()

	rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := env.decode(rec)
	user := resp["user"].(map[string]any)
	return user["id"].(string), resp["token"].(string), resp["refreshToken"].(string)
}
