package locate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func candAt(sq float64) candidate {
	return candidate{sqDistance: sq}
}

func TestAdmitFirstCandidateAlwaysAppended(t *testing.T) {
	p := &projector{sqRadius: 100}
	admit(p, candAt(9999), 0, 0)
	require.Len(t, p.reachable, 1, "first candidate must be kept regardless of radius")
	require.Equal(t, 9999.0, p.reachable[0].sqDistance)
}

func TestAdmitDiscardsWorseOutOfRadiusCandidate(t *testing.T) {
	p := &projector{sqRadius: 100}
	admit(p, candAt(50), 0, 0)
	admit(p, candAt(30), 0, 0)
	admit(p, candAt(200), 0, 0) // out of radius (sqRadius=100) and worse than tail (30)

	got := []float64{p.reachable[0].sqDistance, p.reachable[1].sqDistance}
	require.Equal(t, []float64{50, 30}, got, "worse out-of-radius candidate should be discarded")
}

func TestAdmitAppendsThenSwapsWhenWorseThanInRadiusTail(t *testing.T) {
	p := &projector{sqRadius: 100}
	admit(p, candAt(50), 0, 0)
	admit(p, candAt(30), 0, 0)
	admit(p, candAt(40), 0, 0) // in radius, worse than tail(30), tail already in radius -> append+swap

	got := []float64{p.reachable[0].sqDistance, p.reachable[1].sqDistance, p.reachable[2].sqDistance}
	require.Equal(t, []float64{50, 40, 30}, got, "append-then-swap mismatch")
	require.Equal(t, 30.0, p.reachable[len(p.reachable)-1].sqDistance, "tail must remain the best-so-far candidate")
}

func TestAdmitReplacesTailWhenTailIsOutOfRadius(t *testing.T) {
	p := &projector{sqRadius: 100}
	admit(p, candAt(150), 0, 0) // first candidate, kept unconditionally though out of radius
	admit(p, candAt(80), 0, 0)  // in radius, better than tail, but tail wasn't in radius -> replace

	require.Len(t, p.reachable, 1, "out-of-radius tail should be replaced rather than grown")
	require.Equal(t, 80.0, p.reachable[0].sqDistance)
}

func TestAdmitSortsIntoReachableOrUnreachableByThreshold(t *testing.T) {
	p := &projector{sqRadius: 100}
	admit(p, candAt(10), 3, 5) // reachability 3 < minReach 5 -> unreachable
	admit(p, candAt(10), 5, 5) // reachability 5 >= minReach 5 -> reachable

	require.Len(t, p.reachable, 1)
	require.Len(t, p.unreachable, 1)
}
