package provisioning

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the minimal printf-style logging interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "network", "mesh")
	Message   string            // Human-readable message
	Resource  string            // Resource ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
	Err       error             // Cause for failure events
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceUpdated indicates an existing resource was changed.
	EventResourceUpdated EventType = "resource.updated"
	// EventResourceFailed indicates a resource operation failed.
	EventResourceFailed EventType = "resource.failed"

	// EventWarning indicates a condition the operator should act on.
	EventWarning EventType = "warning"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// level maps an event type to a log level.
func (t EventType) level() zerolog.Level {
	switch t {
	case EventPhaseFailed, EventResourceFailed:
		return zerolog.ErrorLevel
	case EventWarning:
		return zerolog.WarnLevel
	case EventResourceCreating, EventProgress:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogObserver implements Observer on top of a zerolog.Logger.
type LogObserver struct {
	log           zerolog.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log zerolog.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// NewNopObserver returns an observer that discards everything.
func NewNopObserver() *LogObserver {
	return NewLogObserver(zerolog.Nop())
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...any) {
	o.withContext(o.log.Info()).Msgf(format, v...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	e := o.withContext(o.log.WithLevel(event.Type.level())).
		Time(zerolog.TimestampFieldName, event.Timestamp).
		Str("event", string(event.Type))
	if event.Phase != "" {
		e = e.Str("phase", event.Phase)
	}
	if event.Resource != "" {
		e = e.Str("resource", event.Resource)
	}
	for k, v := range event.Fields {
		e = e.Str(k, v)
	}
	if event.Err != nil {
		e = e.Err(event.Err)
	}
	e.Msg(event.Message)
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	e := o.withContext(o.log.Info()).
		Str("event", string(EventProgress)).
		Str("phase", phase).
		Int("current", current).
		Int("total", total)
	if total > 0 {
		e = e.Int("percent", (current*100)/total)
	}
	e.Msg("progress")
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(newFields, o.contextFields)
	maps.Copy(newFields, fields)

	return &LogObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

// withContext attaches the observer's context fields to an event.
// Event fields with the same key win.
func (o *LogObserver) withContext(e *zerolog.Event) *zerolog.Event {
	for k, v := range o.contextFields {
		e = e.Str(k, v)
	}
	return e
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, detail string) {
	observer.Event(Event{
		Type:    EventResourceCreating,
		Phase:   phase,
		Message: strings.TrimSpace(fmt.Sprintf("creating %s %s", resourceType, detail)),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceID string, fields map[string]string) {
	merged := map[string]string{"type": resourceType}
	maps.Copy(merged, fields)
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceID,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields:   merged,
	})
}

// LogResourceUpdated logs a change to an existing resource.
func LogResourceUpdated(observer Observer, phase, resourceType, resourceID, message string) {
	observer.Event(Event{
		Type:     EventResourceUpdated,
		Phase:    phase,
		Resource: resourceID,
		Message:  message,
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceFailed logs a failed resource operation.
func LogResourceFailed(observer Observer, phase, operation string, err error) {
	observer.Event(Event{
		Type:    EventResourceFailed,
		Phase:   phase,
		Message: fmt.Sprintf("%s failed", operation),
		Fields: map[string]string{
			"operation": operation,
		},
		Err: err,
	})
}

// LogWarning logs an operator-facing warning.
func LogWarning(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventWarning,
		Phase:   phase,
		Message: message,
	})
}
