package physics

import (
	"rigid3d/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// sleepTimerSlack absorbs float32 drift in the summed tick lengths so the
// timer fires on the tick that reaches TimeToSleep, not the one after.
const sleepTimerSlack = 1e-4

// updateSleep advances the sleep timers of awake dynamic bodies. A body
// that stays slow for TimeToSleep seconds goes to sleep with its
// velocities zeroed.
func (p *PhysicsWorld) updateSleep(dt float32) {
	for i := range p.bodies {
		b := &p.bodies[i]
		if b.kind != components.Dynamic || b.sleep == nil || b.sleep.IsSleeping || b.vel == nil {
			continue
		}
		s := b.sleep
		if rl.Vector3Length(b.vel.Linear) < s.LinearThreshold && rl.Vector3Length(b.vel.Angular) < s.AngularThreshold {
			s.Timer += dt
		} else {
			s.Timer = 0
		}
		if s.Timer >= s.TimeToSleep*(1-sleepTimerSlack) {
			s.IsSleeping = true
			b.vel.Linear = rl.Vector3{}
			b.vel.Angular = rl.Vector3{}
		}
	}
}
