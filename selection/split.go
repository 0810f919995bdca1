// Package selection partitions a dataset into training and held-out rows.
package selection

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// SplitIndices は [0, n) の順列を rng で生成し、先頭 ⌊n·ratio⌋ 個を学習側、残りをテスト側として返す
func SplitIndices(n int, ratio float64, rng *rand.Rand) (train, test []int, err error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, nil, errors.NewValidationError("ratio", "must be within [0, 1]", ratio)
	}
	if n < 0 {
		return nil, nil, errors.NewValidationError("n", "must be non-negative", n)
	}
	if rng == nil {
		return nil, nil, errors.NewValidationError("rng", "must not be nil", nil)
	}

	perm := rng.Perm(n)
	cut := int(math.Floor(float64(n) * ratio))
	return perm[:cut], perm[cut:], nil
}

// SplitData は seed から決定的に X と y を分割する
// 同じ seed なら常に同じ分割になる。乱数源は呼び出しごとに独立して作られる。
func SplitData(X mat.Matrix, y mat.Vector, ratio float64, seed int64) (XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, err error) {
	n, _ := X.Dims()
	if y.Len() != n {
		return nil, nil, nil, nil, errors.NewDimensionError("SplitData", n, y.Len(), 0)
	}

	train, test, err := SplitIndices(n, ratio, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	XTrain, yTrain = Take(X, y, train)
	XTest, yTest = Take(X, y, test)
	return XTrain, XTest, yTrain, yTest, nil
}

// Take copies the listed rows of X and y. An empty index list yields nil
// outputs since gonum has no zero-row matrices.
func Take(X mat.Matrix, y mat.Vector, idx []int) (*mat.Dense, *mat.VecDense) {
	if len(idx) == 0 {
		return nil, nil
	}
	_, d := X.Dims()
	xs := mat.NewDense(len(idx), d, nil)
	ys := mat.NewVecDense(len(idx), nil)
	for r, i := range idx {
		mat.Row(xs.RawRowView(r), i, X)
		ys.SetVec(r, y.AtVec(i))
	}
	return xs, ys
}
