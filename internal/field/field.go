// Package field holds the little field geometry the lights need: where the
// robot is, which way it faces, and where the drivers stand.
package field

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Point is a field position in metres from the field origin.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Angle is the direction of p from the origin, in degrees (-180, 180].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X) * 180 / math.Pi
}

// Pose is the robot's position and heading (degrees, CCW from +X).
type Pose struct {
	Point
	Heading float64 `yaml:"heading" json:"heading"`
}

// Bearing is the angle in degrees of the vector from -> to.
func Bearing(from, to Point) float64 {
	return to.Sub(from).Angle()
}

type Alliance int

const (
	Blue Alliance = iota
	Red
)

func (a Alliance) String() string {
	if a == Red {
		return "red"
	}
	return "blue"
}

func ParseAlliance(s string) (Alliance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blue":
		return Blue, nil
	case "red":
		return Red, nil
	}
	return Blue, fmt.Errorf("unknown alliance %q", s)
}

// Driver station reference points, stations 1..3.
var (
	driverBlue = [3]Point{{X: 0, Y: 5.55}, {X: 0, Y: 4.03}, {X: 0, Y: 2.50}}
	driverRed  = [3]Point{{X: 17.55, Y: 2.50}, {X: 17.55, Y: 4.03}, {X: 17.55, Y: 5.55}}
)

// DriverTarget is where the drivers of the given station stand. Unknown
// stations fall back to station 1.
func DriverTarget(a Alliance, station int) Point {
	refs := driverBlue
	if a == Red {
		refs = driverRed
	}
	if station < 1 || station > len(refs) {
		station = 1
	}
	return refs[station-1]
}

// PoseStore is a live pose shared between the control surface and the render loop.
type PoseStore struct {
	mu   sync.RWMutex
	pose Pose
}

func NewPoseStore(p Pose) *PoseStore { return &PoseStore{pose: p} }

func (s *PoseStore) Pose() Pose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pose
}

func (s *PoseStore) Set(p Pose) {
	s.mu.Lock()
	s.pose = p
	s.mu.Unlock()
}
