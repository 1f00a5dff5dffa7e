package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/utils"
)

// validationError marks a request-level failure raised inside a mutation
// transaction so it can surface as 400 rather than 500.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func errValidation(msg string) error { return validationError{msg: msg} }

// respondMutationError maps the errors coming out of a mutation transaction
// onto the HTTP taxonomy: missing target, not the owner, bad input, or a
// storage failure.
func respondMutationError(ctx *gin.Context, err error, notFoundMsg string) {
	var vErr validationError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.JSONError(ctx, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, auth.ErrForbidden):
		utils.JSONError(ctx, http.StatusForbidden, auth.ErrForbidden.Error())
	case errors.As(err, &vErr):
		utils.JSONError(ctx, http.StatusBadRequest, vErr.Error())
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, "internal server error")
	}
}
