package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// PhysicsEventHandler receives hit/stay notifications for every contact
// manifold the owning object takes part in. The object must also carry a
// physics event listener marker component.
type PhysicsEventHandler interface {
	OnHit(e PhysicsEvent)
	OnStay(e PhysicsEvent)
}

// CollisionHandler is implemented by components that want enter/stay/exit
// callbacks. The object must also carry a collision event listener marker.
type CollisionHandler interface {
	OnCollisionEnter(e CollisionEvent)
	OnCollisionStay(e CollisionEvent)
	OnCollisionExit(e CollisionEvent)
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
