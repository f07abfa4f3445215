package main

import (
	"fmt"
	"log"

	"github.com/akmonengine/obbtree"
	"github.com/akmonengine/obbtree/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates the test scene with a ground plane, a sphere and a cube
func SetupScene() (*obbtree.World, *actor.Object, *actor.Object) {
	world := &obbtree.World{
		Workers: 2,
	}

	// Ground patch (y=0)
	plane, err := actor.NewShapeObject("ground", actor.NewTransform(), &actor.Plane{
		Normal:       mgl64.Vec3{0, 1, 0},
		HalfSize:     20,
		Subdivisions: 16,
	})
	if err != nil {
		log.Fatal(err)
	}
	world.AddObject(plane)

	sphere, err := actor.NewShapeObject("sphere", actor.NewTransformAt(mgl64.Vec3{4, 1, 0}, mgl64.QuatIdent()), &actor.Sphere{Radius: 1})
	if err != nil {
		log.Fatal(err)
	}
	world.AddObject(sphere)

	// Cube with scale incorporated in half extents, tilted around Z
	cube, err := actor.NewShapeObject("cube", actor.NewTransformAt(
		mgl64.Vec3{-5.0, 5.0, -5.0},
		mgl64.QuatRotate(mgl64.DegToRad(70), mgl64.Vec3{0, 0, 1}),
	), &actor.Box{HalfExtents: mgl64.Vec3{1.5, 1.5, 1.5}})
	if err != nil {
		log.Fatal(err)
	}
	world.AddObject(cube)

	return world, plane, cube
}

// TestCubeDescent moves the cube down onto the ground, casting a ray from above and
// reporting the overlap events at every step
func TestCubeDescent() {
	fmt.Println("Cube descent onto the ground")
	fmt.Println("============================")

	world, plane, cube := SetupScene()

	for _, o := range []*actor.Object{plane, cube} {
		s := o.Tree.Stats()
		fmt.Printf("%s: %d triangles, %d nodes, depth %d\n", o.Name, s.Triangles, s.Nodes, s.MaxDepth)
	}
	fmt.Println()

	world.Events.Subscribe(obbtree.OVERLAP_ENTER, func(event obbtree.Event) {
		e := event.(obbtree.OverlapEnterEvent)
		fmt.Printf("  enter: %s / %s\n", e.ObjectA.Name, e.ObjectB.Name)
	})
	world.Events.Subscribe(obbtree.OVERLAP_EXIT, func(event obbtree.Event) {
		e := event.(obbtree.OverlapExitEvent)
		fmt.Printf("  exit: %s / %s\n", e.ObjectA.Name, e.ObjectB.Name)
	})

	const speed float64 = 0.5
	const maxSteps int = 16

	for step := 0; step < maxSteps; step++ {
		transform := cube.Transform
		transform.Position = transform.Position.Sub(mgl64.Vec3{0, speed, 0})
		cube.SetTransform(transform)

		fmt.Printf("--- STEP %d ---\n", step+1)
		fmt.Printf("  cube position: %v\n", cube.Transform.Position)

		hit, ok := world.Raycast(cube.Transform.Position.Add(mgl64.Vec3{0.1, 10, 0.1}), mgl64.Vec3{0, -1, 0})
		if ok {
			fmt.Printf("  ray from above hits %s, triangle %d at %v\n", hit.Object.Name, hit.Triangle, hit.Point)
		}

		for _, contact := range world.Overlaps() {
			fmt.Printf("  %s intersects %s: %d triangle pairs\n", contact.ObjectA.Name, contact.ObjectB.Name, len(contact.Pairs))
		}
	}

	fmt.Println("Done!")
}

func main() {
	TestCubeDescent()
}
