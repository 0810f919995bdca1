// Package preprocessing provides the pure data transforms applied before
// fitting: missing-value imputation, z-score standardization, per-feature
// polynomial expansion and column selection. None of them mutate their input.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

func checkNonEmpty(op string, X mat.Matrix) (int, int, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return r, c, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return r, c, nil
}

// NaNToZero は欠損値（NaN）をすべて0に置き換えた新しい行列を返す
func NaNToZero(X mat.Matrix) (*mat.Dense, error) {
	r, c, err := checkNonEmpty("NaNToZero", X)
	if err != nil {
		return nil, err
	}

	out := mat.DenseCopyOf(X)
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		for j := 0; j < c; j++ {
			if math.IsNaN(row[j]) {
				row[j] = 0
			}
		}
	}
	return out, nil
}

// NaNToMean は columns に含まれる各列について、欠損値をその列の非欠損値の平均で置き換える
// それ以外の列はそのまま残す。
//
// 列がすべて欠損している場合、平均は定義できないため DegenerateInputError を返す。
func NaNToMean(X mat.Matrix, columns []int) (*mat.Dense, error) {
	r, c, err := checkNonEmpty("NaNToMean", X)
	if err != nil {
		return nil, err
	}

	out := mat.DenseCopyOf(X)
	observed := make([]float64, 0, r)
	for _, j := range columns {
		if j < 0 || j >= c {
			return nil, errors.NewValidationError("columns", "column index out of range", j)
		}

		observed = observed[:0]
		var missing []int
		for i := 0; i < r; i++ {
			v := out.At(i, j)
			if math.IsNaN(v) {
				missing = append(missing, i)
				continue
			}
			observed = append(observed, v)
		}
		if len(missing) == 0 {
			continue
		}
		if len(observed) == 0 {
			return nil, errors.NewDegenerateInputError("NaNToMean", j, "every value is missing, mean is undefined")
		}

		mean := stat.Mean(observed, nil)
		for _, i := range missing {
			out.Set(i, j, mean)
		}
	}
	return out, nil
}

// CountMissing returns the number of NaN entries in each column.
func CountMissing(X mat.Matrix) []int {
	r, c := X.Dims()
	counts := make([]int, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(X.At(i, j)) {
				counts[j]++
			}
		}
	}
	return counts
}
