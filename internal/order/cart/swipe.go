package cart

import "math"

const (
	// ActivationThreshold is how far a drag must travel horizontally, and
	// further than vertically, before the line starts to follow it.
	ActivationThreshold = 10.0
	// CommitDistance is how far left a line must be dragged to delete it on
	// release.
	CommitDistance = 80.0
)

type SwipeOutcome string

const (
	SwipeIgnored  SwipeOutcome = "ignored"
	SwipeSnapBack SwipeOutcome = "snap_back"
	SwipeCommit   SwipeOutcome = "commit"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Swipe recognizes the swipe-to-delete gesture on one line. Feed it the
// touch points with Start and Move, then call Release.
type Swipe struct {
	origin   Point
	dx       float64
	started  bool
	active   bool
	vertical bool
}

func (s *Swipe) Start(p Point) {
	*s = Swipe{origin: p, started: true}
}

// Move returns the horizontal offset the line should be drawn at. It stays
// zero until the gesture activates, and never goes right of rest.
func (s *Swipe) Move(p Point) float64 {
	if !s.started || s.vertical {
		return 0
	}
	dx, dy := p.X-s.origin.X, p.Y-s.origin.Y

	if !s.active {
		switch {
		case math.Abs(dx) > math.Abs(dy) && math.Abs(dx) > ActivationThreshold:
			s.active = true
		case math.Abs(dy) > ActivationThreshold:
			s.vertical = true
			return 0
		default:
			return 0
		}
	}

	s.dx = math.Min(dx, 0)
	return s.dx
}

func (s *Swipe) Release() SwipeOutcome {
	defer func() { *s = Swipe{} }()
	switch {
	case !s.active:
		return SwipeIgnored
	case s.dx <= -CommitDistance:
		return SwipeCommit
	default:
		return SwipeSnapBack
	}
}

// Recognize replays a whole gesture, first point being the touch-down.
func Recognize(points []Point) SwipeOutcome {
	if len(points) == 0 {
		return SwipeIgnored
	}
	var s Swipe
	s.Start(points[0])
	for _, p := range points[1:] {
		s.Move(p)
	}
	return s.Release()
}
