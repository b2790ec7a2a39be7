package trident

import (
	"math"
	"math/rand"
)

const weightInitScale = 0.1

// parameter is one weight matrix together with its accumulated gradient.
// Biases are stored as 1×n matrices so the optimizer can treat every
// parameter uniformly.
type parameter struct {
	value [][]float64
	grad [][]float64
}

type cellState struct {
	hidden []float64
	carry []float64
}

type stepCache any

// recurrentCell advances a recurrent layer by one time step. step records
// whatever intermediate values stepBackward needs; stepBackward accumulates
// parameter gradients and returns the gradients flowing into the step input
// and the previous state.
type recurrentCell interface {
	units() int
	initialState() cellState
	step(x []float64, prev cellState) (cellState, stepCache)
	stepBackward(cache stepCache, dState cellState) ([]float64, cellState)
	parameters() []*parameter
}

func newParameter(rows, cols int, rng *rand.Rand) *parameter {
	p := parameter{
		value: newMatrix(rows, cols),
		grad: newMatrix(rows, cols),
	}
	for i := range p.value {
		for j := range p.value[i] {
			p.value[i][j] = (rng.Float64() - 0.5) * weightInitScale
		}
	}
	return &p
}

func newBias(cols int) *parameter {
	return &parameter{
		value: newMatrix(1, cols),
		grad: newMatrix(1, cols),
	}
}

func newMatrix(rows, cols int) [][]float64 {
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, cols)
	}
	return matrix
}

func (p *parameter) zeroGrad() {
	for i := range p.grad {
		for j := range p.grad[i] {
			p.grad[i][j] = 0.0
		}
	}
}

func (p *parameter) snapshot() [][]float64 {
	output := newMatrix(len(p.value), len(p.value[0]))
	for i := range p.value {
		copy(output[i], p.value[i])
	}
	return output
}

func (p *parameter) restore(snapshot [][]float64) {
	for i := range p.value {
		copy(p.value[i], snapshot[i])
	}
}

// linearStep computes b + x·wx + h·wh with weights laid out [input][output].
func linearStep(x, h []float64, wx, wh, b *parameter) []float64 {
	pre := make([]float64, len(b.value[0]))
	copy(pre, b.value[0])
	for i, xi := range x {
		for j, w := range wx.value[i] {
			pre[j] += xi * w
		}
	}
	for i, hi := range h {
		for j, w := range wh.value[i] {
			pre[j] += hi * w
		}
	}
	return pre
}

// linearStepBackward accumulates the gradients of a linearStep output into
// the parameter grads and adds the input gradients onto dx and dh.
func linearStepBackward(x, h, dpre []float64, wx, wh, b *parameter, dx, dh []float64) {
	for i, xi := range x {
		for j, d := range dpre {
			wx.grad[i][j] += xi * d
			dx[i] += wx.value[i][j] * d
		}
	}
	for i, hi := range h {
		for j, d := range dpre {
			wh.grad[i][j] += hi * d
			dh[i] += wh.value[i][j] * d
		}
	}
	for j, d := range dpre {
		b.grad[0][j] += d
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func zeros(n int) []float64 {
	return make([]float64, n)
}

// recurrentLayer iterates a cell over a full input sequence and keeps the
// per-step caches for the backward pass.
type recurrentLayer struct {
	cell recurrentCell
	inputs [][]float64
	caches []stepCache
}

func newRecurrentLayer(cell recurrentCell) *recurrentLayer {
	return &recurrentLayer{
		cell: cell,
	}
}

// forward returns the hidden state at every time step.
func (l *recurrentLayer) forward(inputs [][]float64) [][]float64 {
	l.inputs = inputs
	l.caches = make([]stepCache, len(inputs))
	state := l.cell.initialState()
	outputs := make([][]float64, len(inputs))
	for t, x := range inputs {
		newState, cache := l.cell.step(x, state)
		l.caches[t] = cache
		outputs[t] = newState.hidden
		state = newState
	}
	return outputs
}

// backward takes one gradient row per time step (rows may be nil when no
// gradient flows into that step) and returns the gradients with respect to
// the layer inputs.
func (l *recurrentLayer) backward(dOutputs [][]float64) [][]float64 {
	units := l.cell.units()
	dInputs := make([][]float64, len(l.inputs))
	dState := l.cell.initialState()
	for t := len(l.inputs) - 1; t >= 0; t-- {
		dHidden := zeros(units)
		copy(dHidden, dState.hidden)
		if dOutputs[t] != nil {
			for i, d := range dOutputs[t] {
				dHidden[i] += d
			}
		}
		stepState := cellState{
			hidden: dHidden,
			carry: dState.carry,
		}
		dx, dPrev := l.cell.stepBackward(l.caches[t], stepState)
		dInputs[t] = dx
		dState = dPrev
	}
	return dInputs
}

func (l *recurrentLayer) parameters() []*parameter {
	return l.cell.parameters()
}

// denseLayer is a fully connected output layer, y = b + h·w.
type denseLayer struct {
	w *parameter
	b *parameter
	input []float64
}

func newDenseLayer(inputSize, outputSize int, rng *rand.Rand) *denseLayer {
	return &denseLayer{
		w: newParameter(inputSize, outputSize, rng),
		b: newBias(outputSize),
	}
}

func (l *denseLayer) forward(input []float64) []float64 {
	l.input = input
	output := make([]float64, len(l.b.value[0]))
	copy(output, l.b.value[0])
	for i, hi := range input {
		for j, w := range l.w.value[i] {
			output[j] += hi * w
		}
	}
	return output
}

func (l *denseLayer) backward(dOutput []float64) []float64 {
	dInput := zeros(len(l.input))
	for i, hi := range l.input {
		for j, d := range dOutput {
			l.w.grad[i][j] += hi * d
			dInput[i] += l.w.value[i][j] * d
		}
	}
	for j, d := range dOutput {
		l.b.grad[0][j] += d
	}
	return dInput
}

func (l *denseLayer) parameters() []*parameter {
	return []*parameter{l.w, l.b}
}

// dropoutLayer applies inverted dropout during training and is the identity
// during inference.
type dropoutLayer struct {
	rate float64
	rng *rand.Rand
	mask []float64
}

func newDropoutLayer(rate float64, rng *rand.Rand) *dropoutLayer {
	return &dropoutLayer{
		rate: rate,
		rng: rng,
	}
}

func (l *dropoutLayer) forward(input []float64, training bool) []float64 {
	if !training || l.rate == 0.0 {
		l.mask = nil
		return input
	}
	keep := 1.0 - l.rate
	l.mask = make([]float64, len(input))
	output := make([]float64, len(input))
	for i, value := range input {
		if l.rng.Float64() < keep {
			l.mask[i] = 1.0 / keep
			output[i] = value * l.mask[i]
		}
	}
	return output
}

func (l *dropoutLayer) backward(dOutput []float64) []float64 {
	if l.mask == nil {
		return dOutput
	}
	dInput := make([]float64, len(dOutput))
	for i, d := range dOutput {
		dInput[i] = d * l.mask[i]
	}
	return dInput
}
