package labels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

func TestRoundTrip(t *testing.T) {
	zeroOne := mat.NewVecDense(5, []float64{0, 1, 1, 0, 1})
	plusMinus := mat.NewVecDense(5, []float64{-1, 1, -1, -1, 1})

	pm, err := ToPlusMinus(zeroOne)
	require.NoError(t, err)
	back, err := ToZeroOne(pm)
	require.NoError(t, err)
	assert.True(t, mat.Equal(back, zeroOne))
	assert.Equal(t, []float64{-1, 1, 1, -1, 1}, pm.RawVector().Data)

	zo, err := ToZeroOne(plusMinus)
	require.NoError(t, err)
	back, err = ToPlusMinus(zo)
	require.NoError(t, err)
	assert.True(t, mat.Equal(back, plusMinus))
}

func TestConvertRejectsOutOfDomain(t *testing.T) {
	tests := []struct {
		name  string
		conv  func(mat.Vector) (*mat.VecDense, error)
		y     []float64
		index int
	}{
		{"ToPlusMinus given -1", ToPlusMinus, []float64{0, 1, -1}, 2},
		{"ToPlusMinus given fraction", ToPlusMinus, []float64{0.5, 1}, 0},
		{"ToZeroOne given 0", ToZeroOne, []float64{1, 0}, 1},
		{"ToZeroOne given NaN", ToZeroOne, []float64{1, -1, math.NaN()}, 2},
		{"ToZeroOne given 2", ToZeroOne, []float64{2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.conv(mat.NewVecDense(len(tt.y), tt.y))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidLabel)

			var labelErr *errors.InvalidLabelError
			require.True(t, errors.As(err, &labelErr))
			assert.Equal(t, tt.index, labelErr.Index)
		})
	}
}

func TestThresholds(t *testing.T) {
	scores := mat.NewVecDense(5, []float64{-0.2, 0, 0.49, 0.5, 3})

	assert.Equal(t, []float64{0, 0, 0, 1, 1}, ThresholdZeroOne(scores).RawVector().Data)
	assert.Equal(t, []float64{-1, 1, 1, 1, 1}, ThresholdPlusMinus(scores).RawVector().Data)
}

func TestEncoding(t *testing.T) {
	assert.Equal(t, "{0,1}", ZeroOne.String())
	assert.Equal(t, "{-1,1}", PlusMinus.String())
	assert.True(t, PlusMinus.Contains(-1))
	assert.False(t, ZeroOne.Contains(-1))

	err := ZeroOne.Validate("LogisticRegression", mat.NewVecDense(3, []float64{0, 1, -1}))
	assert.ErrorIs(t, err, errors.ErrInvalidLabel)
	assert.NoError(t, PlusMinus.Validate("F1", mat.NewVecDense(2, []float64{-1, 1})))
}
