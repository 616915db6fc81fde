package camera

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// direction indexes the latched movement amounts.
type direction int

const (
	dirForward direction = iota
	dirBackward
	dirLeft
	dirRight
	dirUp
	dirDown
	dirCount
)

// keyDirections maps movement keys to the direction they latch.
var keyDirections = map[int]direction{
	common.KeyW:         dirForward,
	common.KeyUp:        dirForward,
	common.KeyS:         dirBackward,
	common.KeyDown:      dirBackward,
	common.KeyA:         dirLeft,
	common.KeyLeft:      dirLeft,
	common.KeyD:         dirRight,
	common.KeyRight:     dirRight,
	common.KeySpace:     dirUp,
	common.KeyLeftShift: dirDown,
}

type inputKind int

const (
	inputKey inputKind = iota
	inputMotion
	inputScroll
)

// pendingInput is one queued input entry, consumed by the next UpdateCamera.
type pendingInput struct {
	kind   inputKind
	dir    direction
	amount float32
	dx, dy float32
	scroll float32
}

type cameraControllerImpl struct {
	speed       float32
	sensitivity float32
	scrollScale float32
	pitchLimit  float32

	lookButton int
	lookHeld   bool

	// amounts holds the latched key state, 1 while a key is down.
	amounts [dirCount]float32
	pending []pendingInput
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller with speed 4, sensitivity 0.4, scroll scale 1,
// a pitch limit of 89 degrees and the left mouse button for look.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		speed:       4.0,
		sensitivity: 0.4,
		scrollScale: 1.0,
		pitchLimit:  mgl32.DegToRad(89),
		lookButton:  common.MouseButtonLeft,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) ProcessKeyboard(key int, pressed bool) bool {
	dir, ok := keyDirections[key]
	if !ok {
		return false
	}
	var amount float32
	if pressed {
		amount = 1
	}
	cc.pending = append(cc.pending, pendingInput{kind: inputKey, dir: dir, amount: amount})
	return true
}

func (cc *cameraControllerImpl) ProcessMouseButton(button int, pressed bool) bool {
	if button != cc.lookButton {
		return false
	}
	cc.lookHeld = pressed
	return true
}

func (cc *cameraControllerImpl) ProcessMouseMotion(dx, dy float64) bool {
	if !cc.lookHeld {
		return false
	}
	cc.pending = append(cc.pending, pendingInput{kind: inputMotion, dx: float32(dx), dy: float32(dy)})
	return true
}

func (cc *cameraControllerImpl) ProcessScroll(delta float64) {
	cc.pending = append(cc.pending, pendingInput{kind: inputScroll, scroll: float32(delta) * cc.scrollScale})
}

func (cc *cameraControllerImpl) UpdateCamera(cam Camera, dt time.Duration) {
	var dx, dy, scroll float32
	for _, in := range cc.pending {
		switch in.kind {
		case inputKey:
			cc.amounts[in.dir] = in.amount
		case inputMotion:
			dx += in.dx
			dy += in.dy
		case inputScroll:
			scroll += in.scroll
		}
	}
	cc.pending = cc.pending[:0]

	secs := float32(dt.Seconds())

	// Movement stays on the horizontal plane regardless of pitch.
	yaw := cam.Yaw()
	sinYaw, cosYaw := math.Sincos(float64(yaw))
	forward := mgl32.Vec3{float32(cosYaw), 0, float32(sinYaw)}
	right := mgl32.Vec3{float32(-sinYaw), 0, float32(cosYaw)}

	move := forward.Mul(cc.amounts[dirForward] - cc.amounts[dirBackward]).
		Add(right.Mul(cc.amounts[dirRight] - cc.amounts[dirLeft])).
		Add(worldUp.Mul(cc.amounts[dirUp] - cc.amounts[dirDown]))
	cam.SetPosition(cam.Position().Add(move.Mul(cc.speed * secs)))

	cam.SetYaw(yaw + dx*cc.sensitivity*secs)

	pitch := cam.Pitch() + (-dy+scroll)*cc.sensitivity*secs
	cam.SetPitch(mgl32.Clamp(pitch, -cc.pitchLimit, cc.pitchLimit))
}

func (cc *cameraControllerImpl) Pending() int {
	return len(cc.pending)
}

func (cc *cameraControllerImpl) LookHeld() bool {
	return cc.lookHeld
}

func (cc *cameraControllerImpl) Speed() float32 {
	return cc.speed
}

func (cc *cameraControllerImpl) Sensitivity() float32 {
	return cc.sensitivity
}

func (cc *cameraControllerImpl) PitchLimit() float32 {
	return cc.pitchLimit
}
