package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcheckout "github.com/shop/backend/internal/application/checkout"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	var h BaseHandler
	h.HandleError(c, err)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleErrorMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"lock timeout", shared.ErrLockTimeout, http.StatusConflict, "LOCK_TIMEOUT"},
		{"invalid quantity", shared.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := renderError(t, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleErrorRendersAssemblyLineDetails(t *testing.T) {
	err := &appcheckout.AssemblyError{Lines: []appcheckout.LineError{
		{Index: 0, Err: shared.ErrInsufficientStock},
		{Index: 2, Err: shared.ErrVariantNotFound},
	}}

	w, resp := renderError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, 0, resp.Error.Details[0].Index)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Details[0].Code)
	assert.Equal(t, 2, resp.Error.Details[1].Index)
	assert.Equal(t, "VARIANT_NOT_FOUND", resp.Error.Details[1].Code)
}

func TestHandleErrorUnknownErrorIs500(t *testing.T) {
	w, resp := renderError(t, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}
