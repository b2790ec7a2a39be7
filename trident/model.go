package trident

import (
	"fmt"
	"math/rand"
)

type Architecture string

const (
	SimpleRNN Architecture = "SimpleRNN"
	LSTM Architecture = "LSTM"
	GRU Architecture = "GRU"
)

var allArchitectures = []Architecture{SimpleRNN, LSTM, GRU}

func parseArchitecture(tag string) (Architecture, error) {
	for _, architecture := range allArchitectures {
		if string(architecture) == tag {
			return architecture, nil
		}
	}
	return "", fmt.Errorf("unsupported architecture \"%s\" (supported: SimpleRNN, LSTM, GRU)", tag)
}

// Model is a two-layer recurrent stack of a single cell type. The first
// layer feeds its full output sequence into the second, only the final state
// of the second layer reaches the head: dropout followed by a dense layer of
// width featureCount * futureSteps.
type Model struct {
	architecture Architecture
	futureSteps int
	layer1 *recurrentLayer
	layer2 *recurrentLayer
	dropout *dropoutLayer
	dense *denseLayer
	params []*parameter
	trained bool
}

func newModel(architecture Architecture, units, futureSteps int, dropout float64, rng *rand.Rand) (*Model, error) {
	if units < 1 {
		return nil, fmt.Errorf("invalid unit count %d", units)
	}
	if futureSteps < 1 {
		return nil, fmt.Errorf("invalid future step count %d", futureSteps)
	}
	if dropout < 0.0 || dropout >= 1.0 {
		return nil, fmt.Errorf("invalid dropout rate %f", dropout)
	}
	cell1, err := newCell(architecture, featureCount, units, rng)
	if err != nil {
		return nil, err
	}
	cell2, err := newCell(architecture, units, units, rng)
	if err != nil {
		return nil, err
	}
	model := Model{
		architecture: architecture,
		futureSteps: futureSteps,
		layer1: newRecurrentLayer(cell1),
		layer2: newRecurrentLayer(cell2),
		dropout: newDropoutLayer(dropout, rng),
		dense: newDenseLayer(units, featureCount * futureSteps, rng),
	}
	model.params = append(model.params, model.layer1.parameters()...)
	model.params = append(model.params, model.layer2.parameters()...)
	model.params = append(model.params, model.dense.parameters()...)
	return &model, nil
}

func newCell(architecture Architecture, inputSize, units int, rng *rand.Rand) (recurrentCell, error) {
	switch architecture {
	case SimpleRNN:
		return newSimpleRNNCell(inputSize, units, rng), nil
	case LSTM:
		return newLSTMCell(inputSize, units, rng), nil
	case GRU:
		return newGRUCell(inputSize, units, rng), nil
	default:
		return nil, fmt.Errorf("unsupported architecture \"%s\"", architecture)
	}
}

// forward runs one input window through the stack. With training set, the
// dropout mask is sampled and the caches needed by backward are retained.
func (m *Model) forward(input [][]float64, training bool) []float64 {
	sequence := m.layer1.forward(input)
	sequence = m.layer2.forward(sequence)
	last := sequence[len(sequence) - 1]
	dropped := m.dropout.forward(last, training)
	return m.dense.forward(dropped)
}

// backward propagates the output gradient of the most recent forward call
// through the stack, accumulating parameter gradients.
func (m *Model) backward(dOutput []float64) {
	dDropped := m.dense.backward(dOutput)
	dLast := m.dropout.backward(dDropped)
	dSequence := make([][]float64, len(m.layer2.inputs))
	dSequence[len(dSequence) - 1] = dLast
	dSequence = m.layer2.backward(dSequence)
	m.layer1.backward(dSequence)
}

func (m *Model) predict(input [][]float64) []float64 {
	return m.forward(input, false)
}

func (m *Model) outputSize() int {
	return featureCount * m.futureSteps
}

func (m *Model) zeroGrad() {
	for _, param := range m.params {
		param.zeroGrad()
	}
}

func (m *Model) snapshotWeights() [][][]float64 {
	snapshots := make([][][]float64, len(m.params))
	for i, param := range m.params {
		snapshots[i] = param.snapshot()
	}
	return snapshots
}

func (m *Model) restoreWeights(snapshots [][][]float64) {
	for i, param := range m.params {
		param.restore(snapshots[i])
	}
}
