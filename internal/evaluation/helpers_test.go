package evaluation

// Test fixtures. Boxes are constant across the duration so the
// trajectory IoU of two instances equals the plain box IoU, which keeps
// the expected overlaps easy to read.

func constTraj(box Box, frames int) Trajectory {
	traj := make(Trajectory, frames)
	for i := range traj {
		traj[i] = box
	}
	return traj
}

func relation(s, p, o string, sub, obj Box, start, end int) Instance {
	return Instance{
		Triplet:  Triplet{Subject: s, Predicate: p, Object: o},
		SubTraj:  constTraj(sub, end-start),
		ObjTraj:  constTraj(obj, end-start),
		Duration: Duration{Start: start, End: end},
	}
}

func scored(inst Instance, score float64) Prediction {
	return Prediction{Instance: inst, Score: score}
}

func approxEqual(a, b float64) bool {
	const tol = 1e-9
	diff := a - b
	return diff < tol && diff > -tol
}
