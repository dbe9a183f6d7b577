package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/dispatch"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/ratelimit"
)

// NotifyController exposes the dispatch pipeline as POST /api/notify. The
// request body is the raw event envelope; the response is the fixed
// dispatch contract, so the HTTP status is 200 for sent and unsent alike.
type NotifyController struct {
	dispatcher *dispatch.Dispatcher
	limiter    *ratelimit.Limiter
	log        *zap.SugaredLogger
}

// NewNotifyController builds the controller. limiter may be nil to disable
// producer throttling, which the test servers rely on.
func NewNotifyController(dispatcher *dispatch.Dispatcher, limiter *ratelimit.Limiter, log *zap.SugaredLogger) *NotifyController {
	return &NotifyController{
		dispatcher: dispatcher,
		limiter:    limiter,
		log:        log.Named("notify-controller"),
	}
}

func (n *NotifyController) BasePath() string { return "notify" }

func (n *NotifyController) Handlers() []gin.HandlerFunc {
	if n.limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{n.limiter.Middleware()}
}

func (n *NotifyController) Register(rg *gin.RouterGroup) error {
	rg.POST("", n.handleNotify)
	return nil
}

func (n *NotifyController) handleNotify(c *gin.Context) {
	metrics.EventsReceived.WithLabelValues("http").Inc()

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		n.log.Warnw("failed to read request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	resp, err := n.dispatcher.Handle(c.Request.Context(), raw)
	if err != nil {
		// Outside the defined recovery paths: unknown envelope shape or a
		// failing lookup call. These surface as a server error instead of
		// the fixed contract.
		n.log.Errorw("dispatch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
