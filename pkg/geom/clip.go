package geom

import "math"

// nearParallel is the determinant threshold below which two segments are
// treated as parallel during intersection.
const nearParallel = 1e-12

// Circle returns a counter-clockwise polygon approximating a circle with
// the given center, radius, and segment count. Fewer than 3 segments are
// raised to 3 to keep the polygon valid.
func Circle(center Point, radius float64, segments int) Polygon {
	if segments < 3 {
		segments = 3
	}
	pts := make([]Point, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return Polygon{Vertices: pts}
}

// ClipConvex clips the subject polygon to a convex clip polygon using the
// Sutherland–Hodgman algorithm and returns the intersection. The clipper
// must be counter-clockwise. An empty Polygon is returned when the
// intersection drops below 3 vertices.
func ClipConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	output := make([]Point, len(subject.Vertices))
	copy(output, subject.Vertices)

	clipN := len(clipper.Vertices)
	for i := 0; i < clipN; i++ {
		if len(output) == 0 {
			return Polygon{}
		}
		edgeStart := clipper.Vertices[i]
		edgeEnd := clipper.Vertices[(i+1)%clipN]
		input := output
		output = make([]Point, 0, len(input)+1)

		for j := 0; j < len(input); j++ {
			current := input[j]
			next := input[(j+1)%len(input)]
			curInside := cross(edgeStart, edgeEnd, current) >= 0
			nextInside := cross(edgeStart, edgeEnd, next) >= 0

			switch {
			case curInside && nextInside:
				output = append(output, next)
			case curInside && !nextInside:
				output = append(output, Intersect(current, next, edgeStart, edgeEnd))
			case !curInside && nextInside:
				output = append(output, Intersect(current, next, edgeStart, edgeEnd), next)
			}
		}
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// Intersect returns the intersection of the infinite lines through a→b
// and c→d via the cross-product determinant. When the lines are
// near-parallel the second endpoint b is returned, which keeps clipping
// well-defined on touching edges.
func Intersect(a, b, c, d Point) Point {
	a1 := b.Y - a.Y
	b1 := a.X - b.X
	c1 := a1*a.X + b1*a.Y

	a2 := d.Y - c.Y
	b2 := c.X - d.X
	c2 := a2*c.X + b2*c.Y

	det := a1*b2 - a2*b1
	if math.Abs(det) < nearParallel {
		return b
	}
	return Point{
		X: (b2*c1 - b1*c2) / det,
		Y: (a1*c2 - a2*c1) / det,
	}
}
