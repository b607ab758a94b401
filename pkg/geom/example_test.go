package geom_test

import (
	"fmt"

	"github.com/diskmosaic/diskmosaic/pkg/geom"
)

func ExamplePolygon_Area() {
	square := geom.NewPolygon(
		geom.Point{X: 0, Y: 0},
		geom.Point{X: 4, Y: 0},
		geom.Point{X: 4, Y: 4},
		geom.Point{X: 0, Y: 4},
	)
	fmt.Println("area:", square.Area())
	fmt.Println("centroid:", square.Centroid())
	// Output:
	// area: 16
	// centroid: {2 2}
}

func ExampleClipConvex() {
	// Clip a unit-offset square against another square; the overlap is
	// the 1x1 region they share.
	a := geom.NewPolygon(
		geom.Point{X: 0, Y: 0},
		geom.Point{X: 2, Y: 0},
		geom.Point{X: 2, Y: 2},
		geom.Point{X: 0, Y: 2},
	)
	b := geom.NewPolygon(
		geom.Point{X: 1, Y: 1},
		geom.Point{X: 3, Y: 1},
		geom.Point{X: 3, Y: 3},
		geom.Point{X: 1, Y: 3},
	)
	fmt.Printf("%.0f\n", geom.ClipConvex(a, b).Area())
	// Output:
	// 1
}
