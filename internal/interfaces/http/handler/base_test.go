package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/foodcourt/pos/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns an engine whose requests carry the given tenant and user
// the way the JWT middleware would set them
func newTestRouter(tenantID, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if tenantID != uuid.Nil {
			c.Set(middleware.JWTTenantIDKey, tenantID.String())
		}
		if userID != uuid.Nil {
			c.Set(middleware.JWTUserIDKey, userID.String())
		}
		c.Next()
	})
	return r
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope mirrors dto.Response with raw data for per-test decoding
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      *dto.ErrorInfo  `json:"error"`
	Pagination *dto.Pagination `json:"pagination"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NewNotFoundError("KOT", "x"), http.StatusNotFound, dto.ErrCodeNotFound, "KOT not found: x"},
		{"business rule", shared.NewDomainError(shared.CodeInsufficientStock, "Not enough stock"), http.StatusBadRequest, dto.ErrCodeInsufficientStock, "Not enough stock"},
		{"wrapped domain error", errors.Join(errors.New("tx"), shared.ErrUnauthorized), http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Not authorized to perform this action"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := gin.New()
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doRequest(r, http.MethodGet, "/", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestBaseHandler_HandleError_Detail(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("pq: relation missing")) })

	ExposeErrorDetail(false)
	env := decodeEnvelope(t, doRequest(r, http.MethodGet, "/", nil))
	assert.Empty(t, env.Error.Detail)

	ExposeErrorDetail(true)
	t.Cleanup(func() { ExposeErrorDetail(false) })
	env = decodeEnvelope(t, doRequest(r, http.MethodGet, "/", nil))
	assert.Equal(t, "pq: relation missing", env.Error.Detail)
}

func TestBaseHandler_ContextAndParams(t *testing.T) {
	h := &BaseHandler{}

	t.Run("missing tenant is unauthorized", func(t *testing.T) {
		r := newTestRouter(uuid.Nil, uuid.Nil)
		r.GET("/x", func(c *gin.Context) {
			if _, ok := h.TenantID(c); ok {
				h.Message(c, "ok")
			}
		})

		w := doRequest(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing user is unauthorized", func(t *testing.T) {
		r := newTestRouter(uuid.New(), uuid.Nil)
		r.GET("/x", func(c *gin.Context) {
			if _, _, ok := h.TenantAndUser(c); ok {
				h.Message(c, "ok")
			}
		})

		w := doRequest(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "User context is missing", decodeEnvelope(t, w).Message)
	})

	t.Run("malformed path id", func(t *testing.T) {
		r := newTestRouter(uuid.New(), uuid.New())
		r.GET("/x/:id", func(c *gin.Context) {
			if _, ok := h.PathID(c, "id"); ok {
				h.Message(c, "ok")
			}
		})

		w := doRequest(r, http.MethodGet, "/x/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Invalid id format", env.Message)
		assert.Equal(t, dto.ErrCodeValidationFailed, env.Error.Code)
	})
}

func TestNormalizePage(t *testing.T) {
	page, limit := 0, 0
	normalizePage(&page, &limit)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = 3, 1000
	normalizePage(&page, &limit)
	assert.Equal(t, 3, page)
	assert.Equal(t, dto.MaxPageLimit, limit)
}
