package evaluation

import (
	gomapinfer "github.com/mitroadmaps/gomapinfer/common"
)

func boxToRectangle(b Box) gomapinfer.Rectangle {
	return gomapinfer.Rectangle{
		Min: gomapinfer.Point{X: b[0], Y: b[1]},
		Max: gomapinfer.Point{X: b[2], Y: b[3]},
	}
}

// TrajectoryIoU is the spatio-temporal IoU of two trajectories: the
// per-frame box intersection summed over the overlapping frame span,
// divided by the union volume of both trajectories. Returns a value in
// [0, 1]; 0 when the durations do not overlap.
//
// Each trajectory must have exactly one box per frame of its duration.
func TrajectoryIoU(trajA Trajectory, durA Duration, trajB Trajectory, durB Duration) float64 {
	start := max(durA.Start, durB.Start)
	end := min(durA.End, durB.End)
	if start >= end {
		return 0
	}

	var overlap float64
	for f := start; f < end; f++ {
		ra := boxToRectangle(trajA[f-durA.Start])
		rb := boxToRectangle(trajB[f-durB.Start])
		overlap += ra.Intersection(rb).Area()
	}

	var volA, volB float64
	for _, b := range trajA {
		volA += boxToRectangle(b).Area()
	}
	for _, b := range trajB {
		volB += boxToRectangle(b).Area()
	}

	union := volA + volB - overlap
	if union <= 0 {
		return 0
	}
	return overlap / union
}
