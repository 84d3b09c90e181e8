package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus/internal/course/models"
	"campus/internal/course/store"
	"campus/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type courseHandlerFixture struct {
	router *chi.Mux
	store  *store.MemoryStore
	tokens *token.Service
}

func newCourseFixture(t *testing.T) *courseHandlerFixture {
	t.Helper()
	tokens := token.NewService("test-key", "campus-test", 15*time.Minute)
	memStore := store.NewMemory()
	h := New(memStore, slog.Default(), nil)

	r := chi.NewRouter()
	h.Register(r, tokens)

	return &courseHandlerFixture{router: r, store: memStore, tokens: tokens}
}

func (f *courseHandlerFixture) bearer(t *testing.T, role token.Role) string {
	t.Helper()
	signed, err := f.tokens.Mint("user-"+string(role), role)
	require.NoError(t, err)
	return "Bearer " + signed
}

func (f *courseHandlerFixture) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateCourseAsAdmin(t *testing.T) {
	f := newCourseFixture(t)

	w := f.do(t, http.MethodPost, "/api/admin/courses", f.bearer(t, token.RoleAdmin),
		models.CreateCourseRequest{Name: "Algebra I"})

	require.Equal(t, http.StatusCreated, w.Code)

	var res models.CourseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, "Algebra I", res.Name)

	id, err := uuid.Parse(res.ID)
	require.NoError(t, err)

	stored, err := f.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Algebra I", stored.Name)
}

func TestCreateCourseRoleDenied(t *testing.T) {
	f := newCourseFixture(t)

	for _, role := range []token.Role{token.RoleTeacher, token.RoleStudent} {
		w := f.do(t, http.MethodPost, "/api/admin/courses", f.bearer(t, role),
			models.CreateCourseRequest{Name: "Algebra I"})
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
	}
}

func TestCreateCourseUnauthenticated(t *testing.T) {
	f := newCourseFixture(t)

	w := f.do(t, http.MethodPost, "/api/admin/courses", "", models.CreateCourseRequest{Name: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateCourseExpiredToken(t *testing.T) {
	f := newCourseFixture(t)
	signed, err := f.tokens.MintWithExpiry("admin-1", token.RoleAdmin, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/api/admin/courses", "Bearer "+signed,
		models.CreateCourseRequest{Name: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateCourseInvalidBody(t *testing.T) {
	f := newCourseFixture(t)

	w := f.do(t, http.MethodPost, "/api/admin/courses", f.bearer(t, token.RoleAdmin),
		models.CreateCourseRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCourseTeacherAllowedForExistenceCheck(t *testing.T) {
	f := newCourseFixture(t)
	course := &models.Course{ID: uuid.New(), Name: "Biology", CreatedAt: time.Now().UTC()}
	require.NoError(t, f.store.Create(context.Background(), course))

	w := f.do(t, http.MethodGet, "/api/admin/courses/"+course.ID.String(), f.bearer(t, token.RoleTeacher), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var res models.CourseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, course.ID.String(), res.ID)
}

func TestGetCourseStudentDenied(t *testing.T) {
	f := newCourseFixture(t)

	w := f.do(t, http.MethodGet, "/api/admin/courses/"+uuid.NewString(), f.bearer(t, token.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetCourseNotFound(t *testing.T) {
	f := newCourseFixture(t)

	w := f.do(t, http.MethodGet, "/api/admin/courses/"+uuid.NewString(), f.bearer(t, token.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCourseInvalidID(t *testing.T) {
	f := newCourseFixture(t)

	w := f.do(t, http.MethodGet, "/api/admin/courses/not-a-uuid", f.bearer(t, token.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
