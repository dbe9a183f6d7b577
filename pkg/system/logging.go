package system

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReqLoggerKey is the context key used to store the request-scoped logger in
// gin context.
const ReqLoggerKey = "reqLogger"

// GetReqLogger returns the request-scoped sugared logger from gin.Context if
// present, otherwise the provided fallback.
func GetReqLogger(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return fallback
	}
	if v, ok := c.Get(ReqLoggerKey); ok {
		if l, ok2 := v.(*zap.SugaredLogger); ok2 {
			return l
		}
	}
	return fallback
}

// DispatchFields returns key/value pairs identifying one dispatch run,
// suitable for SugaredLogger.With or Infow/Errorw calls.
func DispatchFields(dispatchID, accountID, subject string) []interface{} {
	fields := []interface{}{"dispatchID", dispatchID}
	if accountID != "" {
		fields = append(fields, "accountID", accountID)
	}
	if subject != "" {
		fields = append(fields, "subject", subject)
	}
	return fields
}
