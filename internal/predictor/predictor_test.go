package predictor

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/model"
)

// separable builds a dataset whose label is the sign of the first feature.
func separable(n int) *model.Dataset {
	var xs [][]float64
	var ys []int
	for i := 0; i < n; i++ {
		a := math.Sin(float64(i) * 0.7)
		b := 100 + math.Cos(float64(i)*0.3)*5
		label := 0
		if a > 0 {
			label = 1
		}
		xs = append(xs, []float64{a, b})
		ys = append(ys, label)
	}
	cut := n * 8 / 10
	return &model.Dataset{
		Symbol: "TEST",
		Source: "mock",
		TrainX: xs[:cut],
		TrainY: ys[:cut],
		TestX:  xs[cut:],
		TestY:  ys[cut:],
		Latest: model.FeatureRow{
			Time:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Values: []float64{0.9, 100},
			Valid:  true,
		},
	}
}

func TestScaler(t *testing.T) {
	s, err := FitScaler([][]float64{{1, 5}, {3, 5}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Scale)
	assert.Equal(t, []float64{1, 0}, s.Transform([]float64{3, 5}))

	_, err = FitScaler(nil)
	assert.Error(t, err)
	_, err = FitScaler([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestLogisticRegression_Separates(t *testing.T) {
	lr := NewLogisticRegression()
	require.NoError(t, lr.Fit([][]float64{{-2}, {-1}, {1}, {2}}, []int{0, 0, 1, 1}))

	assert.Greater(t, lr.PredictProbability([]float64{2}), 0.5)
	assert.Less(t, lr.PredictProbability([]float64{-2}), 0.5)
	assert.Greater(t, lr.Weights[0], 0.0)
}

func TestLogisticRegression_SingleClass(t *testing.T) {
	lr := NewLogisticRegression()
	err := lr.Fit([][]float64{{1}, {2}, {3}}, []int{1, 1, 1})
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestLogisticRegression_BalancedWeights(t *testing.T) {
	// With an uninformative feature the balanced intercept sits at 0.5
	// regardless of the 9:1 imbalance.
	x := make([][]float64, 10)
	y := make([]int, 10)
	for i := range x {
		x[i] = []float64{0}
	}
	y[9] = 1

	lr := NewLogisticRegression()
	require.NoError(t, lr.Fit(x, y))
	assert.InDelta(t, 0.5, lr.PredictProbability([]float64{0}), 1e-3)
}

func TestLogisticRegression_Mismatch(t *testing.T) {
	lr := NewLogisticRegression()
	assert.Error(t, lr.Fit([][]float64{{1}}, []int{0, 1}))
}

func TestEngine_Train(t *testing.T) {
	e, err := Train(separable(200))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, e.TestAccuracy(), 0.9)
	p := e.PredictProbability()
	assert.Greater(t, p, 0.5)
	assert.LessOrEqual(t, p, 1.0)
	assert.Less(t, e.Probability([]float64{-0.9, 100}), 0.5)
}

func TestEngine_TrainRejectsBadInput(t *testing.T) {
	_, err := Train(nil)
	assert.Error(t, err)

	ds := separable(50)
	ds.Latest.Valid = false
	_, err = Train(ds)
	assert.Error(t, err)

	ds = separable(50)
	for i := range ds.TrainY {
		ds.TrainY[i] = 0
	}
	_, err = Train(ds)
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestHolder_Fallback(t *testing.T) {
	h := NewHolder(DefaultFallbackProbability)
	assert.False(t, h.Ready())
	assert.Nil(t, h.Report())
	assert.Equal(t, model.Prediction{Probability: 0.4, Fallback: true}, h.Predict())

	assert.Equal(t, 0.4, NewHolder(1.5).Predict().Probability)
	assert.Equal(t, 0.4, NewHolder(-0.1).Predict().Probability)
	assert.Equal(t, 0.25, NewHolder(0.25).Predict().Probability)
}

func TestHolder_SwapAndConcurrentReads(t *testing.T) {
	e, err := Train(separable(200))
	require.NoError(t, err)

	h := NewHolder(0.4)
	report := &model.TrainingReport{Symbol: "TEST"}
	h.Swap(e, report)
	require.True(t, h.Ready())
	assert.Same(t, report, h.Report())

	want := h.Predict()
	assert.False(t, want.Fallback)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, h.Predict())
		}()
	}
	wg.Wait()
}

type fakeBuilder struct {
	ds  *model.Dataset
	err error
}

func (f *fakeBuilder) Build(context.Context) (*model.Dataset, error) { return f.ds, f.err }

type fakeRecorder struct{ reports []*model.TrainingReport }

func (f *fakeRecorder) RecordTraining(r *model.TrainingReport) error {
	f.reports = append(f.reports, r)
	return nil
}

func TestTrainer_Train(t *testing.T) {
	h := NewHolder(0.4)
	rec := &fakeRecorder{}
	m := metrics.New(prometheus.NewRegistry())
	var notified int

	tr := NewTrainer(&fakeBuilder{ds: separable(200)}, h)
	tr.Recorder = rec
	tr.Metrics = m
	tr.OnResult = func(_ context.Context, r *model.TrainingReport, err error) {
		notified++
		assert.NoError(t, err)
		assert.NotNil(t, r)
	}

	report, err := tr.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TEST", report.Symbol)
	assert.Equal(t, 200, report.Rows)
	assert.Equal(t, 160, report.TrainRows)
	assert.Equal(t, 40, report.TestRows)
	assert.True(t, h.Ready())
	assert.Equal(t, report.LatestProbability, h.Predict().Probability)
	assert.Len(t, rec.reports, 1)
	assert.Equal(t, 1, notified)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelReady))
}

func TestTrainer_FailureKeepsPreviousEngine(t *testing.T) {
	h := NewHolder(0.4)
	b := &fakeBuilder{ds: separable(200)}
	tr := NewTrainer(b, h)

	first, err := tr.Train(context.Background())
	require.NoError(t, err)

	b.ds, b.err = nil, errors.New("upstream down")
	_, err = tr.Train(context.Background())
	assert.ErrorContains(t, err, "upstream down")

	assert.True(t, h.Ready())
	assert.Same(t, first, h.Report())
	assert.Equal(t, first.LatestProbability, h.Predict().Probability)
}
