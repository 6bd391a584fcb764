package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/apperr"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
)

// Envelope is the uniform body returned by every JSON endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// failure omits data entirely, matching what clients of the old API expect.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success writes {success:true, message, data} with status 200.
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes {success:false, message} with the given status and aborts the chain.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, failure{Success: false, Message: message})
}

// Error maps err to a status via its apperr.Kind. Every logical failure is a 400,
// except method-not-allowed (405); untagged errors are 500 with a generic message.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindMethodNotAllowed:
		Fail(c, http.StatusMethodNotAllowed, messageOf(err))
	case apperr.KindValidation, apperr.KindNotFound:
		Fail(c, http.StatusBadRequest, messageOf(err))
	case apperr.KindIOFailure:
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Fail(c, http.StatusBadRequest, messageOf(err))
	default:
		logger.Errorf("%s %s: unexpected error: %v", c.Request.Method, c.Request.URL.Path, err)
		Fail(c, http.StatusInternalServerError, "An error occurred")
	}
}

// MethodNotAllowed is installed as the engine's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	Error(c, apperr.MethodNotAllowed())
}

func messageOf(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// HandleMethodNotAllowed makes known paths answer other methods with a 405
// envelope instead of gin's plain 404.
func HandleMethodNotAllowed(g *gin.Engine) {
	g.HandleMethodNotAllowed = true
	g.NoMethod(MethodNotAllowed)
}
