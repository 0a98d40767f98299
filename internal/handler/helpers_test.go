package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func recordErr(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondErr(c, err)
	return w
}

func TestRespondErrMapsTaxonomy(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, recordErr(service.NotFound("item")).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, recordErr(&service.ValidationError{Field: "qty", Msg: "must be positive"}).Code)
	assert.Equal(t, http.StatusConflict, recordErr(&service.ConstraintViolation{Msg: "insufficient stock"}).Code)
	assert.Equal(t, http.StatusUnauthorized, recordErr(service.ErrInvalidCredentials).Code)

	// anything else is opaque on purpose
	w := recordErr(service.Storage("load item", assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestBindAndValidateRejections(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	run := func(body string) (*httptest.ResponseRecorder, bool) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var p payload
		ok := bindAndValidate(c, &p)
		return w, ok
	}

	w, ok := run("{not json")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, ok = run(`{"email":"not-an-email"}`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Email")

	_, ok = run(`{"email":"a@example.com"}`)
	assert.True(t, ok)
}
