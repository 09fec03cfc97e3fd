package scad

import (
	"github.com/hschendel/stl"
)

// MeshStats summarizes a rendered STL mesh. Dimensions are in
// millimeters, matching the units of the solid tree.
type MeshStats struct {
	Triangles int
	Min       [3]float64
	Max       [3]float64
}

// Size returns the mesh extent per axis.
func (m MeshStats) Size() [3]float64 {
	return [3]float64{
		m.Max[0] - m.Min[0],
		m.Max[1] - m.Min[1],
		m.Max[2] - m.Min[2],
	}
}

// ReadMeshStats reads an STL file, binary or ASCII, and reports its
// triangle count and bounding box.
func ReadMeshStats(path string) (MeshStats, error) {
	mesh, err := stl.ReadFile(path)
	if err != nil {
		return MeshStats{}, err
	}
	measure := mesh.Measure()
	return MeshStats{
		Triangles: len(mesh.Triangles),
		Min:       [3]float64{float64(measure.Min[0]), float64(measure.Min[1]), float64(measure.Min[2])},
		Max:       [3]float64{float64(measure.Max[0]), float64(measure.Max[1]), float64(measure.Max[2])},
	}, nil
}
