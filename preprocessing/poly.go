package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/core/parallel"
	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// parallelThreshold 以下の行数では逐次処理する
const parallelThreshold = 1000

// BuildPoly expands every feature into its 1st..degree-th powers.
//
// Output column j*degree+k holds x_j^(k+1), so the width is D*degree and the
// powers of one feature stay adjacent. Cross terms between distinct features
// are not generated.
func BuildPoly(X mat.Matrix, degree int) (*mat.Dense, error) {
	r, c, err := checkNonEmpty("BuildPoly", X)
	if err != nil {
		return nil, err
	}
	if degree < 1 {
		return nil, errors.NewValidationError("degree", "must be at least 1", degree)
	}

	out := mat.NewDense(r, c*degree, nil)
	// 行ごとに独立なので大きな入力は行を分割して並列に展開する
	parallel.ParallelizeWithThreshold(r, parallelThreshold, 0, func(start, end int) {
		for i := start; i < end; i++ {
			row := out.RawRowView(i)
			for j := 0; j < c; j++ {
				x := X.At(i, j)
				base := j * degree
				row[base] = x
				for k := 1; k < degree; k++ {
					row[base+k] = row[base+k-1] * x
				}
			}
		}
	})
	return out, nil
}

// SelectColumns copies the half-open column range [from, to) of X.
func SelectColumns(X mat.Matrix, from, to int) (*mat.Dense, error) {
	r, c, err := checkNonEmpty("SelectColumns", X)
	if err != nil {
		return nil, err
	}
	if from < 0 || to > c || from >= to {
		return nil, errors.NewValidationError("columns", "range must satisfy 0 <= from < to <= n_features", [2]int{from, to})
	}

	out := mat.NewDense(r, to-from, nil)
	for i := 0; i < r; i++ {
		for j := from; j < to; j++ {
			out.Set(i, j-from, X.At(i, j))
		}
	}
	return out, nil
}
