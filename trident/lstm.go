package trident

import (
	"math"
	"math/rand"
)

// lstmCell implements the standard LSTM equations with input, forget and
// output gates and a cell carry state:
//
//	i = σ(bi + x·wxi + h·whi)
//	f = σ(bf + x·wxf + h·whf)
//	g = tanh(bg + x·wxg + h·whg)
//	o = σ(bo + x·wxo + h·who)
//	c' = f*c + i*g
//	h' = o*tanh(c')
type lstmCell struct {
	wxi, whi, bi *parameter
	wxf, whf, bf *parameter
	wxg, whg, bg *parameter
	wxo, who, bo *parameter
	unitCount int
}

type lstmCache struct {
	x []float64
	hPrev []float64
	cPrev []float64
	i []float64
	f []float64
	g []float64
	o []float64
	c []float64
}

func newLSTMCell(inputSize, units int, rng *rand.Rand) *lstmCell {
	cell := lstmCell{
		wxi: newParameter(inputSize, units, rng),
		whi: newParameter(units, units, rng),
		bi: newBias(units),
		wxf: newParameter(inputSize, units, rng),
		whf: newParameter(units, units, rng),
		bf: newBias(units),
		wxg: newParameter(inputSize, units, rng),
		whg: newParameter(units, units, rng),
		bg: newBias(units),
		wxo: newParameter(inputSize, units, rng),
		who: newParameter(units, units, rng),
		bo: newBias(units),
		unitCount: units,
	}
	// Initialize the forget gate bias to one so early training does not
	// immediately discard the carry state
	for j := range cell.bf.value[0] {
		cell.bf.value[0][j] = 1.0
	}
	return &cell
}

func (c *lstmCell) units() int {
	return c.unitCount
}

func (c *lstmCell) initialState() cellState {
	return cellState{
		hidden: zeros(c.unitCount),
		carry: zeros(c.unitCount),
	}
}

func (c *lstmCell) step(x []float64, prev cellState) (cellState, stepCache) {
	preI := linearStep(x, prev.hidden, c.wxi, c.whi, c.bi)
	preF := linearStep(x, prev.hidden, c.wxf, c.whf, c.bf)
	preG := linearStep(x, prev.hidden, c.wxg, c.whg, c.bg)
	preO := linearStep(x, prev.hidden, c.wxo, c.who, c.bo)
	i := make([]float64, c.unitCount)
	f := make([]float64, c.unitCount)
	g := make([]float64, c.unitCount)
	o := make([]float64, c.unitCount)
	carry := make([]float64, c.unitCount)
	hidden := make([]float64, c.unitCount)
	for j := range i {
		i[j] = sigmoid(preI[j])
		f[j] = sigmoid(preF[j])
		g[j] = math.Tanh(preG[j])
		o[j] = sigmoid(preO[j])
		carry[j] = f[j] * prev.carry[j] + i[j] * g[j]
		hidden[j] = o[j] * math.Tanh(carry[j])
	}
	cache := lstmCache{
		x: x,
		hPrev: prev.hidden,
		cPrev: prev.carry,
		i: i,
		f: f,
		g: g,
		o: o,
		c: carry,
	}
	state := cellState{
		hidden: hidden,
		carry: carry,
	}
	return state, cache
}

func (c *lstmCell) stepBackward(cache stepCache, dState cellState) ([]float64, cellState) {
	lc := cache.(lstmCache)
	dpreI := make([]float64, c.unitCount)
	dpreF := make([]float64, c.unitCount)
	dpreG := make([]float64, c.unitCount)
	dpreO := make([]float64, c.unitCount)
	dcPrev := make([]float64, c.unitCount)
	for j := range dpreI {
		dh := dState.hidden[j]
		tanhC := math.Tanh(lc.c[j])
		dc := dh * lc.o[j] * (1.0 - tanhC * tanhC)
		if dState.carry != nil {
			dc += dState.carry[j]
		}
		do := dh * tanhC
		di := dc * lc.g[j]
		df := dc * lc.cPrev[j]
		dg := dc * lc.i[j]
		dcPrev[j] = dc * lc.f[j]
		dpreI[j] = di * lc.i[j] * (1.0 - lc.i[j])
		dpreF[j] = df * lc.f[j] * (1.0 - lc.f[j])
		dpreG[j] = dg * (1.0 - lc.g[j] * lc.g[j])
		dpreO[j] = do * lc.o[j] * (1.0 - lc.o[j])
	}
	dx := zeros(len(lc.x))
	dhPrev := zeros(c.unitCount)
	linearStepBackward(lc.x, lc.hPrev, dpreI, c.wxi, c.whi, c.bi, dx, dhPrev)
	linearStepBackward(lc.x, lc.hPrev, dpreF, c.wxf, c.whf, c.bf, dx, dhPrev)
	linearStepBackward(lc.x, lc.hPrev, dpreG, c.wxg, c.whg, c.bg, dx, dhPrev)
	linearStepBackward(lc.x, lc.hPrev, dpreO, c.wxo, c.who, c.bo, dx, dhPrev)
	dPrev := cellState{
		hidden: dhPrev,
		carry: dcPrev,
	}
	return dx, dPrev
}

func (c *lstmCell) parameters() []*parameter {
	return []*parameter{
		c.wxi, c.whi, c.bi,
		c.wxf, c.whf, c.bf,
		c.wxg, c.whg, c.bg,
		c.wxo, c.who, c.bo,
	}
}
