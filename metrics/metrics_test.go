package metrics

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetZerologWarnFunc(func(w error) { got = append(got, w) })
	t.Cleanup(func() {
		log.SetProvider(log.NewZerologProvider(os.Stderr, log.LevelWarn))
	})
	return &got
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := vec(1, 2, 3, 4)
	yPred := vec(1.5, 2.5, 2.5, 3.5)

	tests := []struct {
		name      string
		fn        func(a, b mat.Vector) (float64, error)
		want      float64
		tolerance float64
	}{
		{"MSE", MSE, 0.25, 1e-12},
		{"HalfMSE", HalfMSE, 0.125, 1e-12},
		{"RMSE", RMSE, 0.5, 1e-12},
		{"MAE", MAE, 0.5, 1e-12},
		// TSS = 5, RSS = 1
		{"R2Score", R2Score, 0.8, 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(yTrue, yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.tolerance)

			_, err = tt.fn(yTrue, vec(1, 2))
			var dimErr *errors.DimensionError
			assert.True(t, errors.As(err, &dimErr))
		})
	}
}

func TestHalfMSEOnLabels(t *testing.T) {
	// 2件不一致、差は2ずつ: (4+4)/(2*4)
	got, err := HalfMSE(vec(1, -1, 1, -1), vec(1, 1, -1, -1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestR2ScoreConstantTarget(t *testing.T) {
	_, err := R2Score(vec(2, 2, 2), vec(1, 2, 3))
	assert.True(t, errors.Is(err, errors.ErrDegenerateInput))
}

func TestAccuracy(t *testing.T) {
	got, err := Accuracy(vec(1, 1, -1, -1), vec(1, -1, -1, -1))
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)

	_, err = Accuracy(&mat.VecDense{}, &mat.VecDense{})
	assert.Error(t, err)
}

func TestF1(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"one miss", vec(1, 1, -1, -1), vec(1, -1, -1, -1), 2.0 / 3.0},
		{"perfect", vec(1, -1, 1), vec(1, -1, 1), 1},
		{"all wrong", vec(1, -1), vec(-1, 1), 0},
		{"false positive", vec(1, -1, -1), vec(1, 1, -1), 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureWarnings(t)
			got, err := F1(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestF1ZeroDivision(t *testing.T) {
	warnings := captureWarnings(t)

	// 陽性が1件もない: precision, recall, F1 すべて未定義
	got, err := F1(vec(-1, -1), vec(-1, -1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got))

	require.Len(t, *warnings, 3)
	var metricsSeen []string
	for _, w := range *warnings {
		var um *errors.UndefinedMetricWarning
		require.True(t, errors.As(w, &um))
		metricsSeen = append(metricsSeen, um.Metric)
	}
	assert.Equal(t, []string{"precision", "recall", "f1"}, metricsSeen)
}

func TestUndefinedMetricLoggedByProvider(t *testing.T) {
	provider, warnLog := log.NewTestLoggerProvider(log.LevelWarn)
	log.SetProvider(provider)
	t.Cleanup(func() {
		log.SetProvider(log.NewZerologProvider(os.Stderr, log.LevelWarn))
	})

	c := Confusion{TN: 2}
	assert.Equal(t, 0.0, c.Precision())

	assert.True(t, warnLog.ContainsMessage("'precision' is ill-defined"))
	assert.True(t, warnLog.ContainsField(log.ComponentKey, "warnings"))
}

func TestF1ZeroOneAgreesWithF1(t *testing.T) {
	captureWarnings(t)

	pm, err := F1(vec(1, 1, -1, -1, 1), vec(1, -1, -1, 1, 1))
	require.NoError(t, err)
	zo, err := F1ZeroOne(vec(1, 1, 0, 0, 1), vec(1, 0, 0, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, pm, zo)

	// tp/(tp+(fp+fn)/2) = 2/(2+1)
	assert.InDelta(t, 2.0/3.0, zo, 1e-12)
}

func TestClassificationRejectsWrongEncoding(t *testing.T) {
	_, err := F1(vec(1, 0), vec(1, -1))
	assert.True(t, errors.Is(err, errors.ErrInvalidLabel))

	_, err = F1ZeroOne(vec(1, -1), vec(1, 0))
	assert.True(t, errors.Is(err, errors.ErrInvalidLabel))

	_, _, err = PrecisionRecall(vec(1, -1), vec(1, 2))
	var labelErr *errors.InvalidLabelError
	require.True(t, errors.As(err, &labelErr))
	assert.Equal(t, 1, labelErr.Index)
}

func TestConfusionCounts(t *testing.T) {
	c, err := ConfusionCounts(vec(1, 1, -1, -1, 1), vec(1, -1, 1, -1, 1))
	require.NoError(t, err)
	assert.Equal(t, Confusion{TP: 2, FP: 1, FN: 1, TN: 1}, c)
	assert.InDelta(t, 2.0/3.0, c.Precision(), 1e-12)
	assert.InDelta(t, 2.0/3.0, c.Recall(), 1e-12)
}
