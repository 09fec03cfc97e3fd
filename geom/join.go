package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a directed line or arc primitive from an outline drawing.
// Center and CW are only meaningful when IsArc is set.
type Segment struct {
	Start, End r2.Vec
	IsArc      bool
	Center     r2.Vec
	CW         bool // sweep direction: clockwise when true
}

// Line returns a straight segment from a to b.
func Line(a, b r2.Vec) Segment {
	return Segment{Start: a, End: b}
}

// Arc returns an arc segment from a to b around center c.
func Arc(a, b, c r2.Vec, clockwise bool) Segment {
	return Segment{Start: a, End: b, IsArc: true, Center: c, CW: clockwise}
}

// Tessellate expands the segment into a chain of straight chords no
// longer than MaxChord. Straight segments return their two endpoints.
func (s Segment) Tessellate() []r2.Vec {
	if !s.IsArc {
		return []r2.Vec{s.Start, s.End}
	}
	radius := r2.Norm(r2.Sub(s.Start, s.Center))
	a0 := math.Atan2(s.Start.Y-s.Center.Y, s.Start.X-s.Center.X)
	a1 := math.Atan2(s.End.Y-s.Center.Y, s.End.X-s.Center.X)
	sweep := a1 - a0
	if s.CW {
		if sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		if sweep <= 0 {
			sweep += 2 * math.Pi
		}
	}
	n := arcSegments(math.Abs(sweep)*radius, 1)
	pts := make([]r2.Vec, n+1)
	for i := 0; i <= n; i++ {
		theta := a0 + sweep*float64(i)/float64(n)
		pts[i] = r2.Vec{
			X: s.Center.X + radius*math.Cos(theta),
			Y: s.Center.Y + radius*math.Sin(theta),
		}
	}
	// Pin the endpoints to avoid drift from the trigonometry.
	pts[0] = s.Start
	pts[n] = s.End
	return pts
}

// OpenOutlineError reports a boundary that cannot be closed. When a
// dangling endpoint exists it is named so the source drawing can be
// fixed; NoLoop is set instead when joining produced no usable loop at
// all and there is no endpoint to point at.
type OpenOutlineError struct {
	Dangling r2.Vec
	NoLoop   bool
}

func (e *OpenOutlineError) Error() string {
	if e.NoLoop {
		return "outline does not close: no closed loop in drawing"
	}
	return fmt.Sprintf("outline does not close: dangling endpoint at (%.4f, %.4f)", e.Dangling.X, e.Dangling.Y)
}

// gridKey quantizes a coordinate onto the JoinTolerance grid so that
// nearly-equal endpoints share a vertex.
type gridKey struct {
	x, y int64
}

func keyOf(v r2.Vec) gridKey {
	return gridKey{
		x: int64(math.Round(v.X / JoinTolerance)),
		y: int64(math.Round(v.Y / JoinTolerance)),
	}
}

// arena indexes vertices by tolerance-rounded coordinates. Edges are
// stored as vertex index pairs, keeping the join graph free of pointers.
type arena struct {
	index map[gridKey]int
	pos   []r2.Vec // first-seen coordinate per vertex
	adj   [][]int  // vertex -> incident edge indices
	edges [][2]int
}

func newArena() *arena {
	return &arena{index: make(map[gridKey]int)}
}

func (a *arena) vertex(v r2.Vec) int {
	k := keyOf(v)
	if i, ok := a.index[k]; ok {
		return i
	}
	i := len(a.pos)
	a.index[k] = i
	a.pos = append(a.pos, v)
	a.adj = append(a.adj, nil)
	return i
}

func (a *arena) addEdge(p, q r2.Vec) {
	i, j := a.vertex(p), a.vertex(q)
	if i == j {
		return // zero-length after rounding
	}
	e := len(a.edges)
	a.edges = append(a.edges, [2]int{i, j})
	a.adj[i] = append(a.adj[i], e)
	a.adj[j] = append(a.adj[j], e)
}

// Join connects segments end to end into closed polygons. Segment order
// and direction are irrelevant; arcs are tessellated before joining.
// Closed loops are returned in input-discovery order. Endpoints that no
// other segment continues are returned in open; callers decide whether a
// dangling endpoint is fatal.
func Join(segs []Segment) (loops []Polygon, open []r2.Vec) {
	a := newArena()
	for _, s := range segs {
		pts := s.Tessellate()
		for i := 0; i+1 < len(pts); i++ {
			a.addEdge(pts[i], pts[i+1])
		}
	}

	used := make([]bool, len(a.edges))
	for start := range a.edges {
		if used[start] {
			continue
		}
		loop, ok := a.walk(start, used)
		if !ok {
			continue // open chain; endpoints collected below
		}
		if p := Polygon(loop).dedup(JoinTolerance); len(p) >= 3 && math.Abs(p.Area()) > MinArea {
			loops = append(loops, p)
		}
	}

	for v, edges := range a.adj {
		if len(edges)%2 == 1 {
			open = append(open, a.pos[v])
		}
	}
	return loops, open
}

// walk follows unused edges from the start edge until the walk returns
// to its first vertex. It reports false when the chain dead-ends.
func (a *arena) walk(start int, used []bool) ([]r2.Vec, bool) {
	first := a.edges[start][0]
	at := a.edges[start][1]
	used[start] = true
	loop := []r2.Vec{a.pos[first], a.pos[at]}

	for at != first {
		next := -1
		for _, e := range a.adj[at] {
			if !used[e] {
				next = e
				break
			}
		}
		if next == -1 {
			// Dead end: unmark nothing, the edges stay consumed and the
			// dangling endpoints surface through the adjacency scan.
			return nil, false
		}
		used[next] = true
		if a.edges[next][0] == at {
			at = a.edges[next][1]
		} else {
			at = a.edges[next][0]
		}
		loop = append(loop, a.pos[at])
	}
	return loop[:len(loop)-1], true // drop the repeated first vertex
}

// Outline joins segments and selects the outer board boundary: the
// closed loop with the largest area, oriented counter-clockwise. Smaller
// disjoint loops are returned as discarded artifacts. A dangling
// endpoint is fatal.
func Outline(segs []Segment) (outer Polygon, discarded []Polygon, err error) {
	loops, open := Join(segs)
	if len(open) > 0 {
		return nil, nil, &OpenOutlineError{Dangling: open[0]}
	}
	if len(loops) == 0 {
		return nil, nil, &OpenOutlineError{NoLoop: true}
	}
	best := 0
	for i, l := range loops {
		if math.Abs(l.Area()) > math.Abs(loops[best].Area()) {
			best = i
		}
	}
	for i, l := range loops {
		if i != best {
			discarded = append(discarded, l)
		}
	}
	return loops[best].CCW(), discarded, nil
}
