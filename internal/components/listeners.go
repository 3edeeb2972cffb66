package components

import "rigid3d/internal/engine"

func init() {
	engine.RegisterComponent("PhysicsEventListener", func() engine.Serializable {
		return &PhysicsEventListener{}
	})
	engine.RegisterComponent("CollisionEventListener", func() engine.Serializable {
		return &CollisionEventListener{}
	})
}

// PhysicsEventListener marks an object as wanting hit/stay events.
// OnHit/OnStay are exposed as events so gameplay code can subscribe
// without writing a component.
type PhysicsEventListener struct {
	engine.BaseComponent
	OnHit  engine.EventWithArg[engine.PhysicsEvent]
	OnStay engine.EventWithArg[engine.PhysicsEvent]
}

func (l *PhysicsEventListener) Dispatch(e engine.PhysicsEvent) {
	if e.Kind == engine.PhysicsHit {
		l.OnHit.Invoke(e)
	} else {
		l.OnStay.Invoke(e)
	}
}

func (l *PhysicsEventListener) TypeName() string { return "PhysicsEventListener" }
func (l *PhysicsEventListener) Serialize() map[string]any {
	return map[string]any{"type": "PhysicsEventListener"}
}
func (l *PhysicsEventListener) Deserialize(map[string]any) {}

// CollisionEventListener marks an object as wanting enter/stay/exit events.
type CollisionEventListener struct {
	engine.BaseComponent
	OnEnter engine.EventWithArg[engine.CollisionEvent]
	OnStay  engine.EventWithArg[engine.CollisionEvent]
	OnExit  engine.EventWithArg[engine.CollisionEvent]
}

func (l *CollisionEventListener) Dispatch(e engine.CollisionEvent) {
	switch e.Kind {
	case engine.CollisionEnter:
		l.OnEnter.Invoke(e)
	case engine.CollisionStay:
		l.OnStay.Invoke(e)
	case engine.CollisionExit:
		l.OnExit.Invoke(e)
	}
}

func (l *CollisionEventListener) TypeName() string { return "CollisionEventListener" }
func (l *CollisionEventListener) Serialize() map[string]any {
	return map[string]any{"type": "CollisionEventListener"}
}
func (l *CollisionEventListener) Deserialize(map[string]any) {}
