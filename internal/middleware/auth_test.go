package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		session, _ := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"email": session.Email, "role": session.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	r := newAuthRouter()

	tests := map[string]string{
		"no header":       "",
		"no bearer":       "Token abc",
		"empty token":     "Bearer ",
		"just the scheme": "Bearer",
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			rec := doGet(r, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	r := newAuthRouter()

	token, err := util.GenerateJWT("t@x.com", model.RoleTeacher, testSecret, time.Hour)
	require.NoError(t, err)

	rec := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "t@x.com")
	assert.Contains(t, rec.Body.String(), "teacher")
}

func TestAuthAcceptsLegacyEmailToken(t *testing.T) {
	r := newAuthRouter()

	rec := doGet(r, "Bearer s@x.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s@x.com")
	assert.Contains(t, rec.Body.String(), "student")
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	r := newAuthRouter()

	rec := doGet(r, "Bearer not-a-jwt-and-not-an-email")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter(RequireRole(model.RoleTeacher))

	teacherToken, err := util.GenerateJWT("t@x.com", model.RoleTeacher, testSecret, time.Hour)
	require.NoError(t, err)
	studentToken, err := util.GenerateJWT("s@x.com", model.RoleStudent, testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "Bearer "+teacherToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer "+studentToken).Code)
	// Legacy email tokens default to the student role.
	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer s@x.com").Code)
}

func TestDecide(t *testing.T) {
	teacher := &Session{Email: "t@x.com", Role: model.RoleTeacher}
	student := &Session{Email: "s@x.com", Role: model.RoleStudent}

	tests := map[string]struct {
		session  *Session
		required model.UserRole
		want     Decision
	}{
		"no session redirects to login":   {nil, model.RoleTeacher, Decision{RedirectTo: "/login"}},
		"teacher allowed on teacher view": {teacher, model.RoleTeacher, Decision{Allow: true}},
		"student allowed on student view": {student, model.RoleStudent, Decision{Allow: true}},
		"teacher redirected to answers":   {teacher, model.RoleStudent, Decision{RedirectTo: "/answers"}},
		"student redirected to results":   {student, model.RoleTeacher, Decision{RedirectTo: "/student/results"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.session, tt.required))
		})
	}
}
