package march

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/studio/internal/camera"
)

// Scene is a named shape with the camera its author chose.
type Scene struct {
	Name        string
	Description string
	Shape       Shape
	Camera      camera.Orbit
	// Flat scenes are evaluated in the XY plane through origin2D and zoom.
	Flat bool
}

var scenes = map[string]Scene{
	"spheres": {
		Name:        "spheres",
		Description: "three spheres on a ground plane",
		Shape: Union{
			Ground{Height: -1},
			Sphere{Vec3{-2.2, 0, 0}, 1},
			Bob{Shape: Sphere{Vec3{0, 0, 0}, 1}, Amplitude: 0.5, Speed: 2},
			Sphere{Vec3{2.2, 0, 0}, 1},
		},
		Camera: camera.Orbit{Yaw: 0.4, Pitch: 0.35, Distance: camera.BaseDistance},
	},
	"blob": {
		Name:        "blob",
		Description: "a box and an orbiting sphere blended together",
		Shape: SmoothUnion{
			A: Box{Half: Vec3{1, 1, 1}},
			B: Bob{Shape: Sphere{Vec3{1.2, 0.8, 0}, 0.9}, Amplitude: 1, Speed: 1},
			K: 0.6,
		},
		Camera: camera.Orbit{Yaw: -math.Pi / 4, Pitch: math.Pi / 5, Distance: camera.BaseDistance * 0.8},
	},
	"torus": {
		Name:        "torus",
		Description: "a torus floating over the ground",
		Shape: Union{
			Ground{Height: -1.5},
			Torus{Major: 2, Minor: 0.6},
		},
		Camera: camera.Orbit{Pitch: math.Pi / 4, Distance: camera.BaseDistance},
	},
	"rings": {
		Name:        "rings",
		Description: "flat discs in the plane",
		Shape: Union{
			Circle{Vec3{-2, 0, 0}, 1.5},
			Circle{Vec3{2, 1, 0}, 1},
			Circle{Vec3{0, -2.5, 0}, 0.75},
		},
		Camera: camera.DefaultOrbit(),
		Flat:   true,
	},
}

// SceneByName looks up a built-in scene.
func SceneByName(name string) (Scene, error) {
	sc, ok := scenes[name]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return sc, nil
}

// SceneNames lists the built-in scenes in name order.
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
