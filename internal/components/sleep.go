package components

import (
	"rigid3d/internal/engine"
)

func init() {
	engine.RegisterComponent("Sleep", func() engine.Serializable {
		return NewSleep()
	})
}

const (
	DefaultSleepLinearThreshold  = 0.05 // units/s
	DefaultSleepAngularThreshold = 0.05 // rad/s
	DefaultTimeToSleep           = 0.5  // seconds
)

// Sleep opts a dynamic body into sleeping. A body that stays below both
// thresholds for TimeToSleep seconds is put to sleep and skipped by gravity
// and integration until woken.
type Sleep struct {
	engine.BaseComponent
	IsSleeping       bool
	Timer            float32
	LinearThreshold  float32
	AngularThreshold float32
	TimeToSleep      float32
}

func NewSleep() *Sleep {
	return &Sleep{
		LinearThreshold:  DefaultSleepLinearThreshold,
		AngularThreshold: DefaultSleepAngularThreshold,
		TimeToSleep:      DefaultTimeToSleep,
	}
}

// Wake forces the body out of sleep state
func (s *Sleep) Wake() {
	s.IsSleeping = false
	s.Timer = 0
}

func (s *Sleep) TypeName() string {
	return "Sleep"
}

func (s *Sleep) Serialize() map[string]any {
	return map[string]any{
		"type":             "Sleep",
		"linearThreshold":  s.LinearThreshold,
		"angularThreshold": s.AngularThreshold,
		"timeToSleep":      s.TimeToSleep,
	}
}

func (s *Sleep) Deserialize(data map[string]any) {
	if v, ok := data["linearThreshold"].(float64); ok {
		s.LinearThreshold = float32(v)
	}
	if v, ok := data["angularThreshold"].(float64); ok {
		s.AngularThreshold = float32(v)
	}
	if v, ok := data["timeToSleep"].(float64); ok {
		s.TimeToSleep = float32(v)
	}
}
