package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bea-tech/site-assistant/internal/events"
	"github.com/bea-tech/site-assistant/internal/knowledge"
	"github.com/bea-tech/site-assistant/internal/llm"
	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/tool"
	"github.com/bea-tech/site-assistant/pkg/logger"
	"github.com/bea-tech/site-assistant/pkg/metrics"
)

// Apology is the single user-visible artifact for any completion
// failure. The distinguished failure kind goes to the log, not the
// visitor.
const Apology = "Sorry, I encountered an error. Please try again in a moment."

// toolRefusal is shown when the completion service requests an action
// this service does not implement.
const toolRefusal = "Sorry, I can't help with that action. Is there anything else I can do for you?"

var (
	// ErrBusy reports a send attempted while another is in flight.
	// The attempt has no observable effect.
	ErrBusy = errors.New("a message is already in flight")
	// ErrEmptyMessage reports a send with no content after trimming.
	ErrEmptyMessage = errors.New("message text is empty")
)

// Controller owns one conversation for the lifetime of an open chat
// widget session. All turn-log mutation happens here; sends are
// serialized by the pending guard, never interleaved.
type Controller struct {
	mu            sync.Mutex
	conv          *Conversation
	pending       bool
	formRequested bool

	client    llm.Client
	executor  *tool.Executor
	publisher *events.Publisher
	logger    *logger.Logger

	sessionID    string
	systemPrompt string
	tools        []tool.Declaration

	listenerMu sync.Mutex
	listeners  []func()
}

// NewController creates a controller with a freshly greeted
// conversation. publisher may be nil when event publishing is not
// configured.
func NewController(sessionID string, client llm.Client, publisher *events.Publisher, log *logger.Logger) *Controller {
	return &Controller{
		conv:         NewConversation(),
		client:       client,
		executor:     tool.NewExecutor(),
		publisher:    publisher,
		logger:       log.WithSession(sessionID),
		sessionID:    sessionID,
		systemPrompt: knowledge.SystemPrompt(),
		tools:        tool.Catalog(),
	}
}

// OnChange registers a listener invoked after every turn-log or state
// change. Listeners run outside the controller lock.
func (c *Controller) OnChange(fn func()) {
	c.listenerMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenerMu.Unlock()
}

// Turns returns a copy of the full turn log for rendering.
func (c *Controller) Turns() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Turns()
}

// Pending reports whether a send round trip is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// FormRequested reports whether the completion service asked the
// presentation layer to render the structured booking form.
func (c *Controller) FormRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formRequested
}

// ClearFormRequest acknowledges a rendered booking form.
func (c *Controller) ClearFormRequest() {
	c.mu.Lock()
	c.formRequested = false
	c.mu.Unlock()
	c.notify()
}

// Reset discards the conversation and reseeds the greeting turn. It
// refuses to run while a send is in flight.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.conv.Reset()
	c.formRequested = false
	c.mu.Unlock()
	c.notify()
	return nil
}

// SendUserMessage appends the visitor's message and runs one or two
// completion round trips, appending whatever turns result. Completion
// failures never propagate: they surface as a single apology turn and
// the pending flag is always cleared. Only precondition violations
// (empty text, send already in flight) are returned.
func (c *Controller) SendUserMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.pending = true
	c.append(model.TextTurn(model.RoleUser, text))
	history := c.conv.History()
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
		c.notify()
	}()

	resp, err := c.complete(ctx, history)
	if err != nil {
		c.fail(err)
		return nil
	}

	if resp.HasToolCall() {
		// Multiple simultaneous calls are not supported; the first wins.
		c.dispatchToolCall(ctx, resp.ToolCalls[0])
		return nil
	}

	if resp.Text == "" {
		// Nothing visible to append. Logged as a latent upstream defect.
		c.logger.Warn("completion returned empty text", zap.String("provider", c.client.Name()))
		return nil
	}

	c.appendAndNotify(model.TextTurn(model.RoleModel, resp.Text))
	return nil
}

func (c *Controller) dispatchToolCall(ctx context.Context, call model.ToolCall) {
	switch call.Name {
	case tool.NameBookAppointment:
		c.bookAppointment(ctx, call)
	case tool.NameDisplayAppointmentForm:
		c.mu.Lock()
		c.formRequested = true
		c.mu.Unlock()
		c.notify()
	default:
		c.logger.Warn("unrecognized tool requested", zap.String("tool", call.Name))
		c.appendAndNotify(model.TextTurn(model.RoleModel, toolRefusal))
	}
}

// bookAppointment runs the tool round trip: record the model's call,
// show the optimistic confirmation, feed the result back, and append
// the follow-up. Incomplete arguments short-circuit into a re-prompt
// instead of a confirmation with blanks.
func (c *Controller) bookAppointment(ctx context.Context, call model.ToolCall) {
	req := model.AppointmentFromArgs(call.Args)

	if err := c.executor.Validate(req); err != nil {
		var missing *tool.MissingFieldsError
		if errors.As(err, &missing) {
			c.logger.Warn("booking requested with incomplete arguments",
				zap.Strings("missing", missing.Fields))
			c.appendAndNotify(model.TextTurn(model.RoleAck, rePrompt(missing.Fields)))
			return
		}
		c.fail(err)
		return
	}

	result := c.executor.Execute(req)
	metrics.BookingsTotal.Inc()
	c.publisher.BookingRequested(c.sessionID, req)
	c.logger.Info("appointment booked",
		zap.String("date", req.Date),
		zap.String("reason", req.Reason))

	callTurn := model.Turn{
		Role:  model.RoleModel,
		Parts: []model.Fragment{model.ToolCallFragment(call)},
	}
	ackTurn := model.TextTurn(model.RoleAck, result.Message)
	resultTurn := model.Turn{
		Role: model.RoleUser,
		Parts: []model.Fragment{model.ToolResultFragment(model.ToolResult{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"status":  result.Status,
				"message": result.Message,
			},
		})},
	}

	c.mu.Lock()
	c.append(callTurn)
	c.append(ackTurn)
	c.append(resultTurn)
	history := c.conv.History()
	c.mu.Unlock()
	c.notify()

	follow, err := c.complete(ctx, history)
	if err != nil {
		c.fail(err)
		return
	}

	if follow.HasToolCall() {
		c.logger.Warn("chained tool call ignored", zap.String("tool", follow.ToolCalls[0].Name))
		return
	}
	if follow.Text == "" {
		return
	}
	c.appendAndNotify(model.TextTurn(model.RoleModel, follow.Text))
}

func (c *Controller) complete(ctx context.Context, history []model.Turn) (*llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := c.client.Complete(ctx, &llm.CompletionRequest{
		History:      history,
		SystemPrompt: c.systemPrompt,
		Tools:        c.tools,
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordCompletion(c.client.Name(), status, time.Since(start).Seconds())

	return resp, err
}

// fail maps any completion failure onto the single generic apology
// turn, logging the distinguished kind.
func (c *Controller) fail(err error) {
	kind := "transport"
	switch {
	case errors.Is(err, llm.ErrUnauthenticated):
		kind = "configuration"
	case errors.Is(err, llm.ErrMalformedResponse):
		kind = "protocol"
	}

	c.logger.Error("completion round trip failed",
		zap.String("kind", kind),
		zap.Error(err))
	c.publisher.ChatError(c.sessionID, kind, err.Error())

	c.appendAndNotify(model.TextTurn(model.RoleAck, Apology))
}

// append must be called with c.mu held.
func (c *Controller) append(t model.Turn) {
	c.conv.Append(t)
	metrics.TurnsTotal.WithLabelValues(string(t.Role)).Inc()
}

func (c *Controller) appendAndNotify(t model.Turn) {
	c.mu.Lock()
	c.append(t)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	c.listenerMu.Lock()
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenerMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func rePrompt(missing []string) string {
	return fmt.Sprintf(
		"I just need a little more information to book your appointment. Could you share your %s?",
		humanList(missing),
	)
}

func humanList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
