package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps err through its domain code. Internal failures keep their
// detail out of the response body.
func RespondErr(c *gin.Context, err error) {
	api := apierr.FromError(err)
	_ = c.Error(err)
	if api.Status >= http.StatusInternalServerError && api.Status != http.StatusServiceUnavailable {
		c.JSON(api.Status, ErrorEnvelope{Error: APIError{Message: "internal error", Code: api.Code}})
		return
	}
	RespondError(c, api.Status, api.Code, api)
}

func AbortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
