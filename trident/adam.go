package trident

import "math"

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEpsilon = 1e-8
)

// adamOptimizer keeps first and second moment estimates parallel to the
// parameter list it was created for.
type adamOptimizer struct {
	learningRate float64
	step int
	firstMoments [][][]float64
	secondMoments [][][]float64
}

func newAdamOptimizer(params []*parameter, learningRate float64) *adamOptimizer {
	optimizer := adamOptimizer{
		learningRate: learningRate,
		firstMoments: make([][][]float64, len(params)),
		secondMoments: make([][][]float64, len(params)),
	}
	for i, param := range params {
		rows := len(param.value)
		cols := len(param.value[0])
		optimizer.firstMoments[i] = newMatrix(rows, cols)
		optimizer.secondMoments[i] = newMatrix(rows, cols)
	}
	return &optimizer
}

func (o *adamOptimizer) update(params []*parameter) {
	o.step++
	correction1 := 1.0 - math.Pow(adamBeta1, float64(o.step))
	correction2 := 1.0 - math.Pow(adamBeta2, float64(o.step))
	for p, param := range params {
		m := o.firstMoments[p]
		v := o.secondMoments[p]
		for i := range param.value {
			for j := range param.value[i] {
				g := param.grad[i][j]
				m[i][j] = adamBeta1 * m[i][j] + (1.0 - adamBeta1) * g
				v[i][j] = adamBeta2 * v[i][j] + (1.0 - adamBeta2) * g * g
				mHat := m[i][j] / correction1
				vHat := v[i][j] / correction2
				param.value[i][j] -= o.learningRate * mHat / (math.Sqrt(vHat) + adamEpsilon)
			}
		}
	}
}
