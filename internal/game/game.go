package game

import (
	"fmt"
	"log"
	"math/rand"

	"rigid3d/internal/assets"
	"rigid3d/internal/camera"
	"rigid3d/internal/components"
	"rigid3d/internal/engine"
	"rigid3d/internal/physics"
	"rigid3d/internal/scripts"
	"rigid3d/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	FloorSize    = 40.0
	ScenePath    = "sandbox_scene.json"
	MaterialsDir = "assets/materials"
	panelW       = 260
)

var (
	colorPanel  = rl.NewColor(28, 28, 38, 230)
	colorAccent = rl.NewColor(90, 140, 230, 255)
)

// Game is an interactive sandbox around a world.World: spawn bodies, tilt
// gravity, push bodies with the right mouse button.
type Game struct {
	World      *world.World
	Camera     *camera.OrbitCamera
	Player     *engine.GameObject
	DebugMode  bool
	rng        *rand.Rand
	spawnCount int

	Materials *assets.Library
	material  int
	colors    map[uint64]rl.Color

	gravityMagnitude float32
	gravityTilt      float32 // degrees about Z
	hits             int
}

func New(cfg physics.Config) *Game {
	return &Game{
		World:            world.New(cfg),
		rng:              rand.New(rand.NewSource(1)),
		Materials:        assets.NewLibrary(),
		colors:           make(map[uint64]rl.Color),
		gravityMagnitude: physics.DefaultGravityMagnitude,
		Camera:           camera.New(rl.Vector3{Y: 2}, 28),
	}
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "rigid3d sandbox")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	g.applyStyle()
	if err := g.Materials.LoadDir(MaterialsDir); err != nil {
		log.Printf("Sandbox: %v", err)
	}

	g.createGround()
	g.createMachines()
	g.createPlayer()
	for i := 0; i < 12; i++ {
		g.spawn(physics.ShapeKind(1 + i%3))
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

func (g *Game) applyStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (g *Game) createGround() {
	ground := engine.NewGameObject("Ground")
	ground.Transform.Position = rl.Vector3{Y: -0.5}
	ground.AddComponent(components.NewBoxCollider(rl.Vector3{X: FloorSize, Y: 1, Z: FloorSize}))
	ground.AddComponent(&components.PhysicsEventListener{})
	g.World.Spawn(ground)
	g.countHits(ground)
}

// createMachines adds a spinning paddle and a sliding platform. Both are
// kinematic and driven by scripts.
func (g *Game) createMachines() {
	kinematic := func(name string, pos, size rl.Vector3, driver engine.Component) {
		obj := engine.NewGameObject(name)
		obj.Transform.Position = pos
		rb := components.NewRigidbody()
		rb.Kind = components.Kinematic
		obj.AddComponent(rb)
		obj.AddComponent(components.NewBoxCollider(size))
		obj.AddComponent(driver)
		g.World.Spawn(obj)
	}
	kinematic("Paddle", rl.Vector3{X: 6, Y: 0.5}, rl.Vector3{X: 6, Y: 0.5, Z: 0.5},
		scripts.NewRotator(rl.Vector3{Y: 1}, 60))
	kinematic("Platform", rl.Vector3{Z: -6, Y: 0.25}, rl.Vector3{X: 3, Y: 0.5, Z: 3},
		scripts.NewOscillator(rl.Vector3{X: 1}, 4, 0.8, 0))
}

// countHits hooks the hit counter to ground's listener. Listener callbacks
// are not saved with the scene, so this runs again after a load.
func (g *Game) countHits(ground *engine.GameObject) {
	if listener := engine.GetComponent[*components.PhysicsEventListener](ground); listener != nil {
		listener.OnHit.AddListener(func(engine.PhysicsEvent) { g.hits++ })
	}
}

// createPlayer adds the invisible object that carries the Shooter.
func (g *Game) createPlayer() {
	g.Player = engine.NewGameObject("Player")
	g.Player.AddComponent(components.NewShooter(g.World.Physics, func() rl.Ray {
		return rl.GetScreenToWorldRay(rl.GetMousePosition(), g.Camera.GetRaylibCamera())
	}))
	g.World.Spawn(g.Player)
}

func (g *Game) spawn(kind physics.ShapeKind) {
	g.spawnCount++
	obj := engine.NewGameObject(fmt.Sprintf("%s_%d", kind, g.spawnCount))
	obj.Transform.Position = rl.Vector3{
		X: g.rng.Float32()*8 - 4,
		Y: 6 + g.rng.Float32()*6,
		Z: g.rng.Float32()*8 - 4,
	}
	obj.Transform.Rotation = rl.QuaternionFromEuler(g.rng.Float32()*rl.Pi, g.rng.Float32()*rl.Pi, 0)

	var volume float32
	switch kind {
	case physics.ShapeSphere:
		obj.AddComponent(components.NewSphereCollider(0.5))
		volume = 4.0 / 3.0 * rl.Pi * 0.125
	case physics.ShapeBox:
		obj.AddComponent(components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))
		volume = 1
	case physics.ShapeCapsule:
		obj.AddComponent(components.NewCapsuleCollider(0.35, 0.5))
		volume = rl.Pi*0.35*0.35*1.0 + 4.0/3.0*rl.Pi*0.35*0.35*0.35
	}
	rb := components.NewRigidbody()
	material := g.currentMaterial()
	material.Apply(rb, volume)
	obj.AddComponent(rb)
	obj.AddComponent(components.NewSleep())
	g.colors[obj.UID] = material.Color

	g.World.Spawn(obj)
}

func (g *Game) currentMaterial() *assets.Material {
	names := g.Materials.Names()
	m, ok := g.Materials.Get(names[g.material%len(names)])
	if !ok {
		return assets.DefaultMaterial()
	}
	return m
}

func (g *Game) Update() {
	deltaTime := rl.GetFrameTime()
	if deltaTime > 1.0/30.0 {
		deltaTime = 1.0 / 30.0
	}

	g.Camera.Update(deltaTime)

	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.World.Paused = !g.World.Paused
	}

	gravity := physics.NewGravity(rl.Vector3{Y: -1}, g.gravityMagnitude)
	gravity.RotateAroundAxis(rl.Vector3{Z: 1}, g.gravityTilt*rl.Deg2rad)
	g.World.Physics.Gravity = gravity

	g.World.Update(deltaTime)
}

func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	rl.BeginMode3D(g.Camera.GetRaylibCamera())
	for _, obj := range g.World.GetCollidableObjects() {
		g.drawObject(obj)
	}
	g.drawGravity()
	if g.DebugMode {
		g.drawContacts()
	}
	rl.EndMode3D()

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) bodyColor(obj *engine.GameObject) rl.Color {
	if sleep := engine.GetComponent[*components.Sleep](obj); sleep != nil && sleep.IsSleeping {
		return rl.Gray
	}
	rb := engine.GetComponent[*components.Rigidbody](obj)
	switch {
	case rb == nil || rb.Kind == components.Static:
		return rl.DarkGray
	case rb.Kind == components.Kinematic:
		return rl.Purple
	}
	if c, ok := g.colors[obj.UID]; ok {
		return c
	}
	return rl.Orange
}

func (g *Game) drawObject(obj *engine.GameObject) {
	color := g.bodyColor(obj)

	if s := engine.GetComponent[*components.SphereCollider](obj); s != nil {
		rl.DrawSphere(s.GetCenter(), s.Radius, color)
		rl.DrawSphereWires(s.GetCenter(), s.Radius, 8, 8, rl.Black)
	}
	if b := engine.GetComponent[*components.BoxCollider](obj); b != nil {
		center := b.GetCenter()
		size := rl.Vector3Scale(b.HalfExtents(), 2)

		var axis rl.Vector3
		var angle float32
		rl.QuaternionToAxisAngle(obj.WorldRotation(), &axis, &angle)

		rl.PushMatrix()
		rl.Translatef(center.X, center.Y, center.Z)
		rl.Rotatef(angle*rl.Rad2deg, axis.X, axis.Y, axis.Z)
		rl.DrawCube(rl.Vector3{}, size.X, size.Y, size.Z, color)
		rl.DrawCubeWires(rl.Vector3{}, size.X, size.Y, size.Z, rl.Black)
		rl.PopMatrix()
	}
	if c := engine.GetComponent[*components.CapsuleCollider](obj); c != nil {
		a, b := c.Segment()
		rl.DrawCapsule(a, b, c.Radius, 12, 6, color)
		rl.DrawCapsuleWires(a, b, c.Radius, 12, 6, rl.Black)
	}

	if g.DebugMode {
		if box, ok := g.World.Physics.Bounds(obj); ok {
			rl.DrawBoundingBox(box.BoundingBox(), rl.Green)
		}
	}
}

// drawContacts marks every contact point of this tick with its normal.
func (g *Game) drawContacts() {
	for _, m := range g.World.Physics.Manifolds() {
		for _, c := range m.Contacts() {
			rl.DrawSphere(c.Point, 0.05, rl.Red)
			rl.DrawLine3D(c.Point, rl.Vector3Add(c.Point, rl.Vector3Scale(c.Normal, 0.5)), rl.Red)
		}
	}
}

func (g *Game) drawGravity() {
	from := rl.Vector3{Y: 12}
	to := rl.Vector3Add(from, rl.Vector3Scale(g.World.Physics.Gravity.Direction, 3))
	rl.DrawLine3D(from, to, rl.Yellow)
	rl.DrawSphere(to, 0.15, rl.Yellow)
}

func (g *Game) DrawUI() {
	rl.DrawRectangle(0, 0, panelW, int32(rl.GetScreenHeight()), colorPanel)

	x := float32(12)
	y := float32(12)
	w := float32(panelW - 24)
	row := func(h float32) rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
		y += h + 8
		return r
	}

	gui.Label(row(20), "Gravity")
	g.gravityMagnitude = gui.Slider(row(20), "", fmt.Sprintf("%.1f", g.gravityMagnitude), g.gravityMagnitude, 0, 30)
	gui.Label(row(20), "Tilt")
	g.gravityTilt = gui.Slider(row(20), "", fmt.Sprintf("%.0f", g.gravityTilt), g.gravityTilt, -90, 90)
	if gui.Button(row(24), "Reset gravity") {
		g.gravityMagnitude = physics.DefaultGravityMagnitude
		g.gravityTilt = 0
	}
	g.World.Paused = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 20, Height: 20}, "Paused", g.World.Paused)
	y += 28
	g.DebugMode = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 20, Height: 20}, "Show AABBs", g.DebugMode)
	y += 28

	if gui.Button(row(24), "Material: "+g.currentMaterial().Name) {
		g.material++
	}
	if gui.Button(row(24), "Spawn sphere") {
		g.spawn(physics.ShapeSphere)
	}
	if gui.Button(row(24), "Spawn box") {
		g.spawn(physics.ShapeBox)
	}
	if gui.Button(row(24), "Spawn capsule") {
		g.spawn(physics.ShapeCapsule)
	}
	if gui.Button(row(24), "Save scene") {
		if err := g.World.SaveScene(ScenePath); err != nil {
			log.Printf("Sandbox: %v", err)
		}
	}
	if gui.Button(row(24), "Load scene") {
		g.World.Clear()
		if err := g.World.LoadScene(ScenePath); err != nil {
			log.Printf("Sandbox: %v", err)
		}
		if ground := g.World.Scene.FindByName("Ground"); ground != nil {
			g.countHits(ground)
		}
		g.createPlayer()
	}
	if gui.Button(row(24), "Clear") {
		g.World.Clear()
		g.createGround()
		g.createMachines()
		g.createPlayer()
	}

	stats := g.World.Physics.Stats()
	y += 8
	for _, line := range []string{
		fmt.Sprintf("Bodies: %d (sleeping %d)", stats.Bodies, stats.Sleeping),
		fmt.Sprintf("Tree height: %d, reinserts %d", stats.TreeHeight, stats.Reinserts),
		fmt.Sprintf("Pairs: %d, manifolds %d", stats.Pairs, stats.Manifolds),
		fmt.Sprintf("Contacts: %d", stats.Contacts),
		fmt.Sprintf("Step: %v", stats.StepTime),
		fmt.Sprintf("Ground hits: %d", g.hits),
	} {
		rl.DrawText(line, int32(x), int32(y), 15, rl.LightGray)
		y += 20
	}

	if shooter := engine.GetComponent[*components.Shooter](g.Player); shooter != nil && shooter.LastHit != nil {
		rl.DrawText("Last pushed: "+shooter.LastHit.Name, int32(x), int32(y), 15, colorAccent)
	}

	rl.DrawText("WASD orbit, wheel zoom, Space pause, RMB push, F1 AABBs", panelW+10, 10, 18, rl.DarkGray)
	rl.DrawFPS(panelW+10, 35)
}
