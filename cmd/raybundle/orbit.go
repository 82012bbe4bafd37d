package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/raybundle/pkg/math3d"
)

// maxPitch keeps the orbit away from the poles where the up vector
// degenerates.
const maxPitch = math.Pi/2 - 0.05

// OrbitAxis eases Position toward Target with a critically damped spring.
type OrbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewOrbitAxis creates an axis stepped fps times per second.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		// Frequency 6.0 settles within a few hundred ms, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring by one frame.
func (a *OrbitAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// Orbit is a camera circling the origin at a fixed distance.
type Orbit struct {
	Yaw, Pitch OrbitAxis
	Distance   float64
	fps        int
}

// NewOrbit creates an orbit looking at the origin from +Z.
func NewOrbit(fps int, distance float64) *Orbit {
	return &Orbit{
		Yaw:      NewOrbitAxis(fps),
		Pitch:    NewOrbitAxis(fps),
		Distance: distance,
		fps:      fps,
	}
}

// Nudge moves the orbit targets; the springs ease the camera there.
func (o *Orbit) Nudge(dYaw, dPitch float64) {
	o.Yaw.Target += dYaw
	o.Pitch.Target = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch.Target+dPitch))
}

// Update advances both springs by one frame.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
}

// Reset returns the camera to its starting position immediately.
func (o *Orbit) Reset() {
	o.Yaw = NewOrbitAxis(o.fps)
	o.Pitch = NewOrbitAxis(o.fps)
}

// Eye returns the camera position on the orbit sphere.
func (o *Orbit) Eye() math3d.Vec3 {
	yaw, pitch := o.Yaw.Position, o.Pitch.Position
	return math3d.V3(
		o.Distance*math.Cos(pitch)*math.Sin(yaw),
		o.Distance*math.Sin(pitch),
		o.Distance*math.Cos(pitch)*math.Cos(yaw),
	)
}

// Pose returns the camera-to-world pose looking at the origin.
func (o *Orbit) Pose() math3d.Pose {
	return math3d.LookAtPose(o.Eye(), math3d.V3(0, 0, 0), math3d.Up())
}
