package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/pkg/apperror"
	"github.com/oksasatya/go-account-service/pkg/response"
)

const internalMessage = "Internal Server Error"

// ErrorHandler renders errors collected in c.Errors. Domain errors keep their
// status, message and details; anything else is logged and reduced to a bare 500.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if ae, ok := apperror.As(err); ok {
			if ae.Unwrap() != nil {
				logger.WithError(ae.Unwrap()).WithFields(requestFields(c)).Debug(ae.Error())
			}
			if !c.Writer.Written() {
				response.Write(c, response.Error[any](c, ae.Status, ae.Message, ae.Details, ae.Metadata))
			}
			return
		}

		logger.WithError(err).WithFields(requestFields(c)).Error("unhandled error")
		if !c.Writer.Written() {
			writeInternal(c)
		}
	}
}

// Recovery turns panics into the same generic 500.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).WithFields(requestFields(c)).Error("panic recovered")
		writeInternal(c)
		c.Abort()
	})
}

func writeInternal(c *gin.Context) {
	response.Write(c, response.Error[any](c, http.StatusInternalServerError, internalMessage, nil, nil))
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}
