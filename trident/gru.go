package trident

import (
	"math"
	"math/rand"
)

// gruCell implements the classic GRU formulation with the reset gate applied
// to the previous state before the candidate projection:
//
//	z = σ(bz + x·wxz + h·whz)
//	r = σ(br + x·wxr + h·whr)
//	n = tanh(bn + x·wxn + (r*h)·whn)
//	h' = (1-z)*n + z*h
type gruCell struct {
	wxz, whz, bz *parameter
	wxr, whr, br *parameter
	wxn, whn, bn *parameter
	unitCount int
}

type gruCache struct {
	x []float64
	hPrev []float64
	z []float64
	r []float64
	n []float64
	resetHidden []float64
}

func newGRUCell(inputSize, units int, rng *rand.Rand) *gruCell {
	return &gruCell{
		wxz: newParameter(inputSize, units, rng),
		whz: newParameter(units, units, rng),
		bz: newBias(units),
		wxr: newParameter(inputSize, units, rng),
		whr: newParameter(units, units, rng),
		br: newBias(units),
		wxn: newParameter(inputSize, units, rng),
		whn: newParameter(units, units, rng),
		bn: newBias(units),
		unitCount: units,
	}
}

func (c *gruCell) units() int {
	return c.unitCount
}

func (c *gruCell) initialState() cellState {
	return cellState{
		hidden: zeros(c.unitCount),
	}
}

func (c *gruCell) step(x []float64, prev cellState) (cellState, stepCache) {
	preZ := linearStep(x, prev.hidden, c.wxz, c.whz, c.bz)
	preR := linearStep(x, prev.hidden, c.wxr, c.whr, c.br)
	z := make([]float64, c.unitCount)
	r := make([]float64, c.unitCount)
	resetHidden := make([]float64, c.unitCount)
	for j := range z {
		z[j] = sigmoid(preZ[j])
		r[j] = sigmoid(preR[j])
		resetHidden[j] = r[j] * prev.hidden[j]
	}
	preN := linearStep(x, resetHidden, c.wxn, c.whn, c.bn)
	n := make([]float64, c.unitCount)
	hidden := make([]float64, c.unitCount)
	for j := range n {
		n[j] = math.Tanh(preN[j])
		hidden[j] = (1.0 - z[j]) * n[j] + z[j] * prev.hidden[j]
	}
	cache := gruCache{
		x: x,
		hPrev: prev.hidden,
		z: z,
		r: r,
		n: n,
		resetHidden: resetHidden,
	}
	state := cellState{
		hidden: hidden,
	}
	return state, cache
}

func (c *gruCell) stepBackward(cache stepCache, dState cellState) ([]float64, cellState) {
	gc := cache.(gruCache)
	dpreZ := make([]float64, c.unitCount)
	dpreN := make([]float64, c.unitCount)
	dhPrev := zeros(c.unitCount)
	for j := range dpreN {
		dh := dState.hidden[j]
		dz := dh * (gc.hPrev[j] - gc.n[j])
		dn := dh * (1.0 - gc.z[j])
		dhPrev[j] += dh * gc.z[j]
		dpreZ[j] = dz * gc.z[j] * (1.0 - gc.z[j])
		dpreN[j] = dn * (1.0 - gc.n[j] * gc.n[j])
	}
	dx := zeros(len(gc.x))
	// The candidate projection sees r*h instead of h, so its state gradient
	// arrives via dResetHidden and splits between r and the previous state
	dResetHidden := zeros(c.unitCount)
	linearStepBackward(gc.x, gc.resetHidden, dpreN, c.wxn, c.whn, c.bn, dx, dResetHidden)
	dpreR := make([]float64, c.unitCount)
	for j := range dpreR {
		dr := dResetHidden[j] * gc.hPrev[j]
		dhPrev[j] += dResetHidden[j] * gc.r[j]
		dpreR[j] = dr * gc.r[j] * (1.0 - gc.r[j])
	}
	linearStepBackward(gc.x, gc.hPrev, dpreZ, c.wxz, c.whz, c.bz, dx, dhPrev)
	linearStepBackward(gc.x, gc.hPrev, dpreR, c.wxr, c.whr, c.br, dx, dhPrev)
	dPrev := cellState{
		hidden: dhPrev,
	}
	return dx, dPrev
}

func (c *gruCell) parameters() []*parameter {
	return []*parameter{
		c.wxz, c.whz, c.bz,
		c.wxr, c.whr, c.br,
		c.wxn, c.whn, c.bn,
	}
}
