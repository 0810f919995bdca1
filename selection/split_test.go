package selection

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

func dataset(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(10*i))
		y.SetVec(i, float64(i))
	}
	return X, y
}

func TestSplitDataReproducible(t *testing.T) {
	X, y := dataset(20)

	xa, xb, ya, yb, err := SplitData(X, y, 0.7, 42)
	require.NoError(t, err)
	xa2, xb2, ya2, yb2, err := SplitData(X, y, 0.7, 42)
	require.NoError(t, err)

	assert.True(t, mat.Equal(xa, xa2))
	assert.True(t, mat.Equal(xb, xb2))
	assert.Equal(t, ya.RawVector().Data, ya2.RawVector().Data)
	assert.Equal(t, yb.RawVector().Data, yb2.RawVector().Data)

	_, _, ya3, _, err := SplitData(X, y, 0.7, 43)
	require.NoError(t, err)
	assert.NotEqual(t, ya.RawVector().Data, ya3.RawVector().Data)
}

func TestSplitDataPartition(t *testing.T) {
	X, y := dataset(10)

	xTrain, xTest, yTrain, yTest, err := SplitData(X, y, 0.75, 1)
	require.NoError(t, err)

	// ⌊10·0.75⌋ = 7
	assert.Equal(t, 7, yTrain.Len())
	assert.Equal(t, 3, yTest.Len())

	seen := append(append([]float64{}, yTrain.RawVector().Data...), yTest.RawVector().Data...)
	sort.Float64s(seen)
	for i, v := range seen {
		assert.Equal(t, float64(i), v)
	}

	// 行とラベルの対応が保たれる
	for i := 0; i < yTrain.Len(); i++ {
		assert.Equal(t, yTrain.AtVec(i), xTrain.At(i, 0))
		assert.Equal(t, 10*yTrain.AtVec(i), xTrain.At(i, 1))
	}
	for i := 0; i < yTest.Len(); i++ {
		assert.Equal(t, yTest.AtVec(i), xTest.At(i, 0))
	}
}

func TestSplitIndices(t *testing.T) {
	train, test, err := SplitIndices(5, 1, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Len(t, train, 5)
	assert.Empty(t, test)

	train, test, err = SplitIndices(5, 0, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Empty(t, train)
	assert.Len(t, test, 5)
}

func TestSplitErrors(t *testing.T) {
	X, y := dataset(4)

	for _, ratio := range []float64{-0.1, 1.5} {
		_, _, _, _, err := SplitData(X, y, ratio, 0)
		var vErr *errors.ValidationError
		assert.True(t, errors.As(err, &vErr), "ratio=%v", ratio)
	}

	_, _, _, _, err := SplitData(X, mat.NewVecDense(3, nil), 0.5, 0)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
