package predictor

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// ErrSingleClass is returned when the training labels contain only one class.
var ErrSingleClass = errors.New("training labels contain a single class")

// LogisticRegression is an L2-regularised binary classifier.
type LogisticRegression struct {
	C             float64 // inverse regularisation strength
	MaxIterations int

	Weights   []float64
	Intercept float64
}

// NewLogisticRegression returns a classifier with C=1 and 1000 iterations.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: 1, MaxIterations: 1000}
}

// Fit learns weights from x and binary labels y. Samples are weighted so
// both classes contribute equally regardless of imbalance.
func (lr *LogisticRegression) Fit(x [][]float64, y []int) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("fit: %d samples, %d labels", len(x), len(y))
	}
	n, d := len(x), len(x[0])

	var positives int
	for _, label := range y {
		if label == 1 {
			positives++
		}
	}
	if positives == 0 || positives == n {
		return ErrSingleClass
	}
	classWeight := [2]float64{
		float64(n) / (2 * float64(n-positives)),
		float64(n) / (2 * float64(positives)),
	}

	X := mat.NewDense(n, d, nil)
	for i, row := range x {
		X.SetRow(i, row)
	}
	sw := make([]float64, n)
	target := make([]float64, n)
	for i, label := range y {
		sw[i] = classWeight[label]
		target[i] = float64(label)
	}

	c := lr.C
	if c <= 0 {
		c = 1
	}
	z := mat.NewVecDense(n, nil)
	margins := func(params []float64) {
		z.MulVec(X, mat.NewVecDense(d, params[:d]))
		for i := 0; i < n; i++ {
			z.SetVec(i, z.AtVec(i)+params[d])
		}
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			margins(params)
			var loss float64
			for i := 0; i < n; i++ {
				zi := z.AtVec(i)
				loss += sw[i] * (softplus(zi) - target[i]*zi)
			}
			w := params[:d]
			return 0.5*floats.Dot(w, w) + c*loss
		},
		Grad: func(grad, params []float64) {
			margins(params)
			for j := range grad {
				grad[j] = 0
			}
			for i := 0; i < n; i++ {
				r := c * sw[i] * (sigmoid(z.AtVec(i)) - target[i])
				floats.AddScaled(grad[:d], r, X.RawRowView(i))
				grad[d] += r
			}
			floats.Add(grad[:d], params[:d])
		},
	}

	iters := lr.MaxIterations
	if iters <= 0 {
		iters = 1000
	}
	result, err := optimize.Minimize(problem, make([]float64, d+1), &optimize.Settings{
		MajorIterations:   iters,
		GradientThreshold: 1e-6,
	}, &optimize.LBFGS{})
	if result == nil {
		return fmt.Errorf("optimize: %w", err)
	}
	if err != nil {
		log.Warn().Err(err).Str("status", result.Status.String()).Msg("logistic regression did not fully converge")
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("optimize: non-finite weights")
		}
	}

	lr.Weights = append([]float64(nil), result.X[:d]...)
	lr.Intercept = result.X[d]
	return nil
}

// PredictProbability returns P(class 1) for one scaled row.
func (lr *LogisticRegression) PredictProbability(row []float64) float64 {
	return sigmoid(floats.Dot(lr.Weights, row) + lr.Intercept)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1+exp(z)) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
