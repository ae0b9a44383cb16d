package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction of keyboard movement relative to where the camera faces.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	DefaultMinZoom = 1.0
	maxPitch       = 89.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a fly camera driven by yaw/pitch Euler angles.
// It is a value type: copying it yields an independent snapshot.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3

	Yaw   float32
	Pitch float32
	Zoom  float32

	// MinZoom and MaxZoom bound the field of view ProcessZoom allows.
	MinZoom float32
	MaxZoom float32

	MovementSpeed    float32
	MouseSensitivity float32

	firstMouse bool
	lastX      float64
	lastY      float64
}

// New returns a camera at pos looking down -Z.
func New(pos mgl32.Vec3) Camera {
	c := Camera{
		Position:         pos,
		Yaw:              DefaultYaw,
		Pitch:            DefaultPitch,
		Zoom:             DefaultZoom,
		MinZoom:          DefaultMinZoom,
		MaxZoom:          DefaultZoom,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		firstMouse:       true,
	}
	c.updateVectors()
	return c
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProcessMovement moves the camera along its local axes, scaled by dt seconds.
func (c *Camera) ProcessMovement(dir Direction, dt float32) {
	velocity := c.MovementSpeed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

// ProcessLook applies a pointer delta in pixels. Positive dy looks up.
func (c *Camera) ProcessLook(dx, dy float32) {
	c.Yaw += dx * c.MouseSensitivity
	c.Pitch += dy * c.MouseSensitivity

	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}

	c.updateVectors()
}

// HandlePointer feeds an absolute cursor position. The first sample after
// creation or ResetPointer only seeds the tracker.
func (c *Camera) HandlePointer(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	xoffset := xpos - c.lastX
	yoffset := c.lastY - ypos // window y grows downwards
	c.lastX = xpos
	c.lastY = ypos

	c.ProcessLook(float32(xoffset), float32(yoffset))
}

// ResetPointer makes the next HandlePointer call a seed sample again,
// e.g. after the cursor was released and recaptured.
func (c *Camera) ResetPointer() {
	c.firstMouse = true
}

// ProcessZoom narrows the field of view for positive scroll deltas.
func (c *Camera) ProcessZoom(delta float32) {
	c.Zoom -= delta
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// InvertPitch flips the vertical look angle. Only the reflection pass needs this.
func (c *Camera) InvertPitch() {
	c.Pitch = -c.Pitch
	c.updateVectors()
}

// Mirrored returns the camera reflected across the horizontal plane y = height.
// The receiver is left untouched. Mirrored(0) is an exact involution.
//
// Unlike the other methods it takes a value receiver: the copy is the
// mirrored snapshot, so the caller's camera is never written.
func (c Camera) Mirrored(height float32) Camera {
	c.Position[1] = 2*height - c.Position[1]
	c.InvertPitch()
	return c
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(worldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
