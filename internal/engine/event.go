package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Event is a multi-cast event with no payload.
type Event struct {
	listeners []func()
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event) AddListener(callback func()) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

// RemoveAllListeners clears all listeners
func (e *Event) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *Event) Invoke() {
	for _, listener := range e.listeners {
		listener()
	}
}

func (e *Event) GetListenerCount() int {
	return len(e.listeners)
}

// EventWithArg is a generic event with one argument
type EventWithArg[T any] struct {
	listeners []func(T)
}

func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}

// ContactPoint is one world-space contact of a manifold, seen from the
// receiving object: Normal points from the receiver toward Other.
type ContactPoint struct {
	Point       rl.Vector3
	Normal      rl.Vector3
	Penetration float32
}

type PhysicsEventKind uint8

const (
	PhysicsHit PhysicsEventKind = iota
	PhysicsStay
)

func (k PhysicsEventKind) String() string {
	if k == PhysicsHit {
		return "Hit"
	}
	return "Stay"
}

// PhysicsEvent reports a contact manifold to one of its two participants.
type PhysicsEvent struct {
	Kind     PhysicsEventKind
	Self     *GameObject
	Other    *GameObject
	Normal   rl.Vector3
	Contacts []ContactPoint

	// Closing speed along the normal, impulse and energy estimates of the
	// impact. Intended for effects scaling.
	RelativeNormalSpeed float32
	ImpactImpulse       float32
	ImpactEnergy        float32
}

type CollisionEventKind uint8

const (
	CollisionEnter CollisionEventKind = iota
	CollisionStay
	CollisionExit
)

func (k CollisionEventKind) String() string {
	switch k {
	case CollisionEnter:
		return "Enter"
	case CollisionStay:
		return "Stay"
	default:
		return "Exit"
	}
}

// CollisionEvent is the enter/stay/exit view of a contact pair. Exit events
// carry no contacts.
type CollisionEvent struct {
	Kind     CollisionEventKind
	Self     *GameObject
	Other    *GameObject
	Normal   rl.Vector3
	Contacts []ContactPoint

	RelativeNormalSpeed float32
	ImpactImpulse       float32
	ImpactEnergy        float32
}
