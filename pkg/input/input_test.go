package input

import (
	"errors"
	"testing"

	"github.com/devicelab-dev/hypium-runner/pkg/core"
	"github.com/devicelab-dev/hypium-runner/pkg/device/devicetest"
)

func TestTap_SendsClick(t *testing.T) {
	conn := devicetest.New()
	exec := New(conn)

	if _, err := exec.Tap(640, 1360); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conn.InputCount() != 1 {
		t.Fatalf("expected 1 input, got %d", conn.InputCount())
	}
	if got := conn.InputLog[0]; got != "click 640 1360" {
		t.Errorf("input = %q, want %q", got, "click 640 1360")
	}
}

func TestTap_RejectsInvalidCoordinates(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 100},
		{"negative y", 100, -1},
		{"x too large", 100001, 100},
		{"y too large", 100, 100001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := devicetest.New()
			exec := New(conn)

			_, err := exec.Tap(tt.x, tt.y)
			if !errors.Is(err, core.ErrInvalidCoordinate) {
				t.Errorf("err = %v, want ErrInvalidCoordinate", err)
			}
			// Validation must reject before any device call
			if conn.InputCount() != 0 {
				t.Errorf("device received %d inputs", conn.InputCount())
			}
		})
	}
}

func TestSwipe_SendsSpeed(t *testing.T) {
	conn := devicetest.New()
	exec := New(conn)

	// 1000 px in 500 ms -> 2000 px/s
	if _, err := exec.Swipe(100, 1500, 100, 500, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := conn.InputLog[0]; got != "swipe 100 1500 100 500 2000" {
		t.Errorf("input = %q", got)
	}
}

func TestSwipe_RejectsInvalidEndpoint(t *testing.T) {
	conn := devicetest.New()
	exec := New(conn)

	_, err := exec.Swipe(100, 100, -5, 100, 300)
	if !errors.Is(err, core.ErrInvalidCoordinate) {
		t.Errorf("err = %v, want ErrInvalidCoordinate", err)
	}
	if conn.InputCount() != 0 {
		t.Errorf("device received %d inputs", conn.InputCount())
	}
}

func TestPressKey(t *testing.T) {
	conn := devicetest.New()
	exec := New(conn)

	if _, err := exec.PressKey(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := conn.InputLog[0]; got != "keyEvent 2" {
		t.Errorf("input = %q, want %q", got, "keyEvent 2")
	}

	if _, err := exec.PressKey(-1); !errors.Is(err, core.ErrInvalidCoordinate) {
		t.Errorf("err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestSwipeSpeed(t *testing.T) {
	tests := []struct {
		name       string
		x1, y1     int
		x2, y2     int
		durationMs int
		want       int
	}{
		{"vertical gesture", 0, 1000, 0, 0, 500, 2000},
		{"diagonal 3-4-5", 0, 0, 300, 400, 1000, 500},
		{"slow gesture clamps to floor", 0, 10, 0, 0, 1000, MinSwipeSpeed},
		{"fast gesture clamps to ceiling", 0, 90000, 0, 0, 1, MaxSwipeSpeed},
		{"zero duration uses default", 0, 600, 0, 0, 0, 2000},
		{"negative duration uses default", 0, 600, 0, 0, -50, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SwipeSpeed(tt.x1, tt.y1, tt.x2, tt.y2, tt.durationMs)
			if got != tt.want {
				t.Errorf("SwipeSpeed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSendInputFailurePropagates(t *testing.T) {
	conn := devicetest.New()
	conn.FailInput = errors.New("channel dropped")
	exec := New(conn)

	if _, err := exec.Tap(10, 10); err == nil {
		t.Error("expected device error to propagate")
	}
}
