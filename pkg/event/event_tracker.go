package event

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
)

const contextKey = "eventCtx"

// Context carries the payload a handler wants published after its
// mutation succeeds. Handlers that fail leave NewData nil and nothing
// is recorded.
type Context struct {
	Resource  string
	Operation string
	NewData   interface{}
}

// FromGin returns the event context installed by TrackEvent, or nil when
// the route is untracked.
func FromGin(c *gin.Context) *Context {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	return v.(*Context)
}

// TrackerMiddleware records outbox rows for mutations. Publication is
// deferred to the worker so the request path never talks to the broker.
type TrackerMiddleware struct {
	outbox repository.OutboxRepository
	logger *zerolog.Logger
}

func NewTrackerMiddleware(outbox repository.OutboxRepository, logger *zerolog.Logger) *TrackerMiddleware {
	return &TrackerMiddleware{outbox: outbox, logger: logger}
}

func (m *TrackerMiddleware) TrackEvent(resource, operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventCtx := &Context{Resource: resource, Operation: operation}
		c.Set(contextKey, eventCtx)

		c.Next()

		if eventCtx.NewData == nil {
			return
		}

		payload, err := json.Marshal(eventCtx.NewData)
		if err != nil {
			m.logger.Error().Err(err).Msg("failed to marshal event payload")
			return
		}

		evt := &model.OutboxEvent{
			EventType: fmt.Sprintf("%s_%s", strings.ToUpper(resource), strings.ToUpper(operation)),
			Payload:   payload,
		}
		if err := m.outbox.Create(c.Request.Context(), evt); err != nil {
			m.logger.Error().Err(err).
				Str("event_type", evt.EventType).
				Msg("failed to record outbox event")
		}
	}
}
