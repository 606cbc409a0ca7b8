package main

import (
	"errors"
	"hrc/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps an operation error to the HTTP status returned to callers.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrSlotFull), errors.Is(err, types.ErrSlotUnavailable), errors.Is(err, types.ErrInUse):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %s\n", ctx.Request.Method, ctx.FullPath(), err.Error())
		ctx.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

// badRequest answers a request that failed binding.
func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// actorID is the staff member behind an admin request.
func actorID(ctx *gin.Context) *uint {
	id := ctx.GetUint("id")
	if id == 0 {
		return nil
	}
	return &id
}
