// Package input translates resolved points and gestures into uiInput
// commands on the device channel.
package input

import (
	"math"
	"strconv"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
	"github.com/devicelab-dev/hypium-runner/pkg/device"
)

// uitest uiInput swipe speed bounds, in px/s.
const (
	MinSwipeSpeed = 200
	MaxSwipeSpeed = 40000
)

// maxCoordinate rejects values no physical display can carry.
const maxCoordinate = 100000

// defaultSwipeDuration is used when a swipe has no or a non-positive
// duration, in ms.
const defaultSwipeDuration = 300

// Executor forwards validated input events to the device. It performs no
// retries; retry policy belongs to the workflow layer.
type Executor struct {
	conn device.Connector
}

// New creates an Executor on the given connector.
func New(conn device.Connector) *Executor {
	return &Executor{conn: conn}
}

// Tap injects a click at the given point. Coordinates are validated
// before any device call.
func (e *Executor) Tap(x, y int) (string, error) {
	if err := validateCoord(x, y); err != nil {
		return "", err
	}
	return e.conn.SendInput("click", itoa(x), itoa(y))
}

// Swipe injects a swipe gesture. The duration is translated to the
// device's speed parameter: path length over duration, clamped to the
// platform bounds.
func (e *Executor) Swipe(x1, y1, x2, y2, durationMs int) (string, error) {
	if err := validateCoord(x1, y1); err != nil {
		return "", err
	}
	if err := validateCoord(x2, y2); err != nil {
		return "", err
	}

	speed := SwipeSpeed(x1, y1, x2, y2, durationMs)
	return e.conn.SendInput("swipe", itoa(x1), itoa(y1), itoa(x2), itoa(y2), itoa(speed))
}

// PressKey injects a key event for the given key code.
func (e *Executor) PressKey(code int) (string, error) {
	if code < 0 || code > maxCoordinate {
		return "", core.ErrInvalidCoordinate.WithMessage("key code outside the valid range").
			WithDetails(map[string]interface{}{"code": code})
	}
	return e.conn.SendInput("keyEvent", itoa(code))
}

// SwipeSpeed maps a gesture duration onto the device speed parameter.
// Longer durations yield lower speeds; the result is clamped to
// [MinSwipeSpeed, MaxSwipeSpeed].
func SwipeSpeed(x1, y1, x2, y2, durationMs int) int {
	if durationMs <= 0 {
		durationMs = defaultSwipeDuration
	}

	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	dist := math.Hypot(dx, dy)

	speed := int(math.Round(dist / float64(durationMs) * 1000))
	if speed < MinSwipeSpeed {
		return MinSwipeSpeed
	}
	if speed > MaxSwipeSpeed {
		return MaxSwipeSpeed
	}
	return speed
}

// validateCoord rejects coordinates outside the device pixel space.
func validateCoord(x, y int) error {
	if x < 0 || y < 0 || x > maxCoordinate || y > maxCoordinate {
		return core.ErrInvalidCoordinate.WithDetails(map[string]interface{}{"x": x, "y": y})
	}
	return nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
