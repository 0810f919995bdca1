package training

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/linear"
	"github.com/YuminosukeSato/linfit/loss"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

func toyData() (y *mat.VecDense, tx *mat.Dense, yVal *mat.VecDense, xVal *mat.Dense) {
	tx = mat.NewDense(6, 2, []float64{
		1, -1.0,
		1, -0.5,
		1, -0.2,
		1, 0.3,
		1, 0.6,
		1, 1.2,
	})
	y = mat.NewVecDense(6, []float64{0, 0, 1, 0, 1, 1})
	xVal = mat.NewDense(2, 2, []float64{1, -0.8, 1, 0.9})
	yVal = mat.NewVecDense(2, []float64{0, 1})
	return
}

func TestInterval(t *testing.T) {
	tests := []struct {
		maxIters int
		want     int
		wantErr  bool
	}{
		{0, 0, true},
		{4, 0, true},
		{5, 1, false},
		{12, 2, false},
		{500, 100, false},
	}
	for _, tt := range tests {
		got, err := Interval(tt.maxIters)
		if tt.wantErr {
			var vErr *errors.ValidationError
			assert.True(t, errors.As(err, &vErr), "maxIters=%d", tt.maxIters)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRunCheckpoints(t *testing.T) {
	y, tx, yVal, xVal := toyData()
	logger, _ := log.NewTestLogger(log.LevelDebug)

	res, err := Run(Config{
		Y: y, TX: tx, Lambda: 0, InitialW: mat.NewVecDense(2, nil),
		MaxIters: 50, Gamma: 0.5, XVal: xVal, YVal: yVal, Logger: logger,
	})
	require.NoError(t, err)

	require.Len(t, res.Checkpoints, 5)
	for i, c := range res.Checkpoints {
		assert.Equal(t, (i+1)*10, c.Iteration)
	}
	for i := 1; i < len(res.Checkpoints); i++ {
		assert.Less(t, res.Checkpoints[i].TrainLoss, res.Checkpoints[i-1].TrainLoss)
	}

	// 最後のチェックポイントは最終重みで評価した値と一致する
	last := res.Checkpoints[len(res.Checkpoints)-1]
	wantTrain, _ := loss.NLL(y, tx, res.Weights)
	wantVal, _ := loss.NLL(yVal, xVal, res.Weights)
	assert.InDelta(t, wantTrain, last.TrainLoss, 1e-12)
	assert.InDelta(t, wantVal, last.ValLoss, 1e-12)
	assert.InDelta(t, res.FinalLoss, last.TrainLoss, 1e-12)

	assert.Len(t, logger.EntriesWithMessage("checkpoint"), 5)
	assert.True(t, logger.ContainsMessage("training finished"))
}

func TestRunMatchesSolver(t *testing.T) {
	y, tx, yVal, xVal := toyData()
	w0 := mat.NewVecDense(2, []float64{0.1, 0.1})

	res, err := Run(Config{
		Y: y, TX: tx, Lambda: 0.05, InitialW: w0,
		MaxIters: 20, Gamma: 0.3, XVal: xVal, YVal: yVal,
	})
	require.NoError(t, err)

	w, nll, err := linear.RegLogisticRegression(y, tx, 0.05, w0, 20, 0.3)
	require.NoError(t, err)
	assert.Equal(t, w.RawVector().Data, res.Weights.RawVector().Data)
	assert.Equal(t, nll, res.FinalLoss)
}

func TestTraining(t *testing.T) {
	y, tx, yVal, xVal := toyData()

	w, trainTrace, valTrace, err := Training(y, tx, 0, mat.NewVecDense(2, nil), 13, 0.5, xVal, yVal)
	require.NoError(t, err)
	require.NotNil(t, w)
	// interval = 2, checkpoints at 2,4,...,12
	assert.Len(t, trainTrace, 6)
	assert.Len(t, valTrace, 6)
	for _, v := range append(trainTrace, valTrace...) {
		assert.False(t, math.IsNaN(v))
	}
}

func TestTrainingErrors(t *testing.T) {
	y, tx, yVal, xVal := toyData()
	w0 := mat.NewVecDense(2, nil)

	t.Run("too few iterations", func(t *testing.T) {
		_, _, _, err := Training(y, tx, 0, w0, 4, 0.5, xVal, yVal)
		var vErr *errors.ValidationError
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("validation width mismatch", func(t *testing.T) {
		_, _, _, err := Training(y, tx, 0, w0, 10, 0.5, mat.NewDense(2, 3, nil), yVal)
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})

	t.Run("validation labels must be zero-one", func(t *testing.T) {
		_, _, _, err := Training(y, tx, 0, w0, 10, 0.5, xVal, mat.NewVecDense(2, []float64{-1, 1}))
		assert.True(t, errors.Is(err, errors.ErrInvalidLabel))
	})

	t.Run("training labels must be zero-one", func(t *testing.T) {
		bad := mat.NewVecDense(6, []float64{-1, -1, 1, -1, 1, 1})
		_, _, _, err := Training(bad, tx, 0, w0, 10, 0.5, xVal, yVal)
		assert.True(t, errors.Is(err, errors.ErrInvalidLabel))
	})
}
