package trident

import (
	"math"
	"math/rand"
)

// simpleRNNCell: h' = tanh(b + x·wx + h·wh)
type simpleRNNCell struct {
	wx *parameter
	wh *parameter
	b *parameter
	unitCount int
}

type simpleRNNCache struct {
	x []float64
	hPrev []float64
	h []float64
}

func newSimpleRNNCell(inputSize, units int, rng *rand.Rand) *simpleRNNCell {
	return &simpleRNNCell{
		wx: newParameter(inputSize, units, rng),
		wh: newParameter(units, units, rng),
		b: newBias(units),
		unitCount: units,
	}
}

func (c *simpleRNNCell) units() int {
	return c.unitCount
}

func (c *simpleRNNCell) initialState() cellState {
	return cellState{
		hidden: zeros(c.unitCount),
	}
}

func (c *simpleRNNCell) step(x []float64, prev cellState) (cellState, stepCache) {
	pre := linearStep(x, prev.hidden, c.wx, c.wh, c.b)
	h := make([]float64, len(pre))
	for i, value := range pre {
		h[i] = math.Tanh(value)
	}
	cache := simpleRNNCache{
		x: x,
		hPrev: prev.hidden,
		h: h,
	}
	state := cellState{
		hidden: h,
	}
	return state, cache
}

func (c *simpleRNNCell) stepBackward(cache stepCache, dState cellState) ([]float64, cellState) {
	rnnCache := cache.(simpleRNNCache)
	dpre := make([]float64, c.unitCount)
	for i, dh := range dState.hidden {
		h := rnnCache.h[i]
		dpre[i] = dh * (1.0 - h * h)
	}
	dx := zeros(len(rnnCache.x))
	dhPrev := zeros(c.unitCount)
	linearStepBackward(rnnCache.x, rnnCache.hPrev, dpre, c.wx, c.wh, c.b, dx, dhPrev)
	dPrev := cellState{
		hidden: dhPrev,
	}
	return dx, dPrev
}

func (c *simpleRNNCell) parameters() []*parameter {
	return []*parameter{c.wx, c.wh, c.b}
}
