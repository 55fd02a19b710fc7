package tube

import "gonum.org/v1/gonum/spatial/r3"

// TurnMesh returns the lateral surface of a pipe swept along turn in
// cfg.TurnSegments steps. The turn replaces span units of path length
// starting at startDistance, so V runs from startDistance/pathLength to
// (startDistance+span)/pathLength and continues the adjoining segments.
func TurnMesh(turn Turn, radius, pathLength, startDistance, span float64, cfg Config) (*MeshBuffer, error) {
	if err := checkShell(radius, pathLength, cfg); err != nil {
		return nil, err
	}
	n := cfg.TurnSegments
	m := &MeshBuffer{}
	m.grow(6 * cfg.Segments * n)
	ringAt := func(f float64) []r3.Vec {
		return ringAbout(turn.Point(f), turn.Direction(f), turn.rot, radius, cfg)
	}
	prev := ringAt(0)
	for k := 0; k < n; k++ {
		f0 := float64(k) / float64(n)
		f1 := float64(k+1) / float64(n)
		next := ringAt(f1)
		m.shell(prev, next,
			(startDistance+span*f0)/pathLength,
			(startDistance+span*f1)/pathLength)
		prev = next
	}
	return m, nil
}
