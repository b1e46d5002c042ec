package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createKOTBody struct {
	TableNumber string `json:"tableNumber" binding:"required"`
	Quantity    int    `json:"quantity" binding:"gt=0"`
	KOTType     string `json:"kotType" binding:"omitempty,max=5"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/kots", func(c *gin.Context) {
		var body createKOTBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/kots",
		strings.NewReader(`{"quantity":0,"kotType":"takeaway"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "tableNumber: This field is required", resp.Message)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, rec.Header().Get(RequestIDKey), resp.Error.RequestID)
	assert.ElementsMatch(t, []dto.ValidationDetail{
		{Field: "tableNumber", Message: "This field is required"},
		{Field: "quantity", Message: "Must be greater than 0"},
		{Field: "kotType", Message: "Must be at most 5 characters"},
	}, resp.Error.Fields)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := newValidationRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/kots", strings.NewReader(`{"tableNumber":`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "Request validation failed", resp.Message)
	assert.Empty(t, resp.Error.Fields)
}

func TestValidationDetails_NotValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}

type partyBody struct {
	Mobile string `json:"mobile" binding:"omitempty,phone,max=20"`
	GSTIN  string `json:"gstin" binding:"omitempty,gstin"`
}

func TestSetupValidator_PartyTags(t *testing.T) {
	SetupValidator()
	SetupValidator()

	tests := []struct {
		name   string
		body   partyBody
		fields []string
	}{
		{"empty values are optional", partyBody{}, nil},
		{"valid", partyBody{Mobile: "+91 98765-43210", GSTIN: "29ABCDE1234F1Z5"}, nil},
		{"lowercase gstin", partyBody{GSTIN: "29abcde1234f1z5"}, nil},
		{"letters in mobile", partyBody{Mobile: "98765abcde"}, []string{"mobile"}},
		{"short gstin", partyBody{GSTIN: "29ABCDE1234"}, []string{"gstin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.body)
			var fields []string
			for _, d := range ValidationDetails(err) {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}
