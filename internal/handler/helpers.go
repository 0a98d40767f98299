package handler

import (
	"errors"
	"net/http"

	"github.com/rushilbhatia3/FMS/internal/apierror"
	"github.com/rushilbhatia3/FMS/internal/middleware"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondErr maps the service error taxonomy onto HTTP statuses. Storage
// errors deliberately reach the client as an opaque 500.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case service.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case service.IsConstraint(err):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("internal error"))
	}
}

// actor translates the JWT claims into the service-layer caller identity.
func actor(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{
		ID:           id,
		Role:         claims.Role,
		MaxClearance: claims.MaxClearanceLevel,
	}
}

// pathUUID parses the :id path segment, answering 400 itself on garbage.
func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
