// Stress test comparing the dynamic tree broadphase against brute force, then
// timing full world steps.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"
	"rigid3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	configPath := flag.String("config", "physics.json", "physics config file")
	steps := flag.Int("steps", 120, "world steps per count")
	flag.Parse()

	cfg, err := physics.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	testCounts := []int{100, 500, 1000, 2000, 5000}

	fmt.Println("Broadphase:")
	for _, count := range testCounts {
		testBroadPhase(count)
	}

	fmt.Println("\nWorld step:")
	for _, count := range testCounts {
		testWorld(cfg, count, *steps)
	}
}

func spawnSize(count int) float32 {
	return float32(50.0) + float32(count)/100.0
}

func randomBox(rng *rand.Rand, size float32) physics.AABB {
	center := rl.Vector3{
		X: rng.Float32()*size - size/2,
		Y: rng.Float32()*size - size/2,
		Z: rng.Float32()*size - size/2,
	}
	r := 0.5 + rng.Float32()*0.5
	return physics.NewAABBFromCenter(center, rl.Vector3{X: r * 2, Y: r * 2, Z: r * 2})
}

func testBroadPhase(count int) {
	rng := rand.New(rand.NewSource(42))
	size := spawnSize(count)

	proxies := make([]physics.Proxy, count)
	for i := range proxies {
		proxies[i] = physics.Proxy{UID: uint64(i + 1), Bounds: randomBox(rng, size), Moving: true}
	}

	bp := physics.NewBroadphase(physics.DefaultFatMargin)
	bp.Sync(proxies)
	bp.FindPairs()

	const iterations = 10
	treeStart := time.Now()
	var treePairs int
	for i := 0; i < iterations; i++ {
		bp.Sync(proxies)
		treePairs = len(bp.FindPairs())
	}
	treeTime := time.Since(treeStart) / iterations

	// Brute force over the same fat boxes so both sides agree on the pair set.
	fat := make([]physics.AABB, count)
	for i, p := range proxies {
		fat[i] = p.Bounds.Fatten(physics.DefaultFatMargin)
	}
	bruteStart := time.Now()
	var brutePairs int
	for iter := 0; iter < iterations; iter++ {
		brutePairs = 0
		for i := 0; i < count; i++ {
			for j := i + 1; j < count; j++ {
				if fat[i].Intersects(fat[j]) {
					brutePairs++
				}
			}
		}
	}
	bruteTime := time.Since(bruteStart) / iterations

	speedup := float64(bruteTime) / float64(treeTime)
	fmt.Printf("%5d objects: tree %8v (%5d pairs, height %2d) | brute %10v (%5d pairs) | %.1fx speedup\n",
		count, treeTime.Round(time.Microsecond), treePairs, bp.Tree().Height(),
		bruteTime.Round(time.Microsecond), brutePairs, speedup)
	if treePairs != brutePairs {
		log.Printf("Physics: pair mismatch at %d objects", count)
	}
}

func testWorld(cfg physics.Config, count, steps int) {
	rng := rand.New(rand.NewSource(42))
	size := spawnSize(count)
	world := physics.NewPhysicsWorld(cfg)

	ground := engine.NewGameObject("ground")
	ground.Transform.Position = rl.Vector3{Y: -size/2 - 1}
	ground.AddComponent(components.NewBoxCollider(rl.Vector3{X: size * 2, Y: 1, Z: size * 2}))
	world.AddObject(ground)

	for i := 0; i < count; i++ {
		g := engine.NewGameObject(fmt.Sprintf("body_%d", i))
		g.Transform.Position = randomBox(rng, size).Center()
		g.AddComponent(components.NewRigidbody())
		g.AddComponent(components.NewSleep())
		switch i % 3 {
		case 0:
			g.AddComponent(components.NewSphereCollider(0.5))
		case 1:
			g.AddComponent(components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))
		default:
			g.AddComponent(components.NewCapsuleCollider(0.3, 0.4))
		}
		world.AddObject(g)
	}

	var total time.Duration
	var last physics.Stats
	for i := 0; i < steps; i++ {
		world.Step(1.0/60.0, physics.DefaultGravity())
		last = world.Stats()
		total += last.StepTime
	}

	fmt.Printf("%5d objects: %8v/step | pairs %5d | contacts %5d | sleeping %5d | height %2d | parallel %v\n",
		count, (total / time.Duration(steps)).Round(time.Microsecond),
		last.Pairs, last.Contacts, last.Sleeping, last.TreeHeight, last.Parallel)
}
