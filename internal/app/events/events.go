package events

import (
	"github.com/sirupsen/logrus"
)

// Event types emitted by the lifecycle engine.
const (
	TypeProjectCreated = "project.created"
	TypeProjectAwarded = "project.awarded"
	TypeProjectDone    = "project.completed"
	TypeStepSubmitted  = "step.submitted"
	TypeStepReviewed   = "step.reviewed"
)

// Event is a domain event for external notification delivery. The engine
// emits and forgets; delivery failures never affect the transition.
type Event struct {
	Type      string
	ProjectID uint
	ActorID   uint
	Payload   map[string]interface{}
}

// Notifier delivers one event to the external notification service.
type Notifier interface {
	Notify(e Event) error
}

// Emitter is the narrow surface the lifecycle engine depends on.
type Emitter interface {
	Emit(e Event)
}

// Dispatcher fans events out to notifiers on their own goroutines.
type Dispatcher struct {
	notifiers []Notifier
}

func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers}
}

// Emit hands the event to every notifier asynchronously. Errors are logged
// and dropped.
func (d *Dispatcher) Emit(e Event) {
	for _, n := range d.notifiers {
		go func(n Notifier) {
			if err := n.Notify(e); err != nil {
				logrus.Warnf("notify %s for project %d failed: %v", e.Type, e.ProjectID, err)
			}
		}(n)
	}
}

// LogNotifier writes events to the service log. Stands in for push/SMS/email
// delivery, which lives outside this service.
type LogNotifier struct{}

func (LogNotifier) Notify(e Event) error {
	logrus.Infof("event %s: project=%d actor=%d payload=%v", e.Type, e.ProjectID, e.ActorID, e.Payload)
	return nil
}
