package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/peakpulse/internal/domain/dto"
	"github.com/guttosm/peakpulse/internal/errors"
)

// StatusForError maps a coded error to its HTTP status.
//
//	InvalidSource                      -> 400
//	MalformedRecord, EmptyBatch        -> 422
//	SourceUnavailable, SinkUnavailable -> 502
//	LedgerUnavailable                  -> 503
//	anything else                      -> 500
func StatusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	case errors.ErrCodeMalformedRecord, errors.ErrCodeEmptyBatch:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeSourceUnavailable, errors.ErrCodeSinkUnavailable:
		return http.StatusBadGateway
	case errors.ErrCodeLedgerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error attached with c.Error when the handler
// did not write a response itself.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	resp := dto.NewErrorResponse(http.StatusText(StatusForError(err)), err)
	if code := errors.GetCode(err); code != errors.ErrCodeUnknown {
		resp = resp.WithCode(code.String())
	}
	c.JSON(StatusForError(err), resp)
}

// AbortWithError stops the chain with a JSON error body and records err on
// the context so RequestLogger reports it.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	if err != nil {
		_ = c.Error(err)
		if code := errors.GetCode(err); code != errors.ErrCodeUnknown {
			resp = resp.WithCode(code.String())
		}
	}
	c.AbortWithStatusJSON(status, resp)
}
