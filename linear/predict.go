package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/labels"
	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// Scores returns tx·w.
func Scores(tx mat.Matrix, w mat.Vector) (*mat.VecDense, error) {
	n, d := tx.Dims()
	if w.Len() != d {
		return nil, errors.NewDimensionError("Scores", d, w.Len(), 1)
	}
	out := mat.NewVecDense(n, nil)
	out.MulVec(tx, w)
	return out, nil
}

// PredictZeroOne returns {0,1} class labels by cutting the raw score x·w at
// 0.5 with labels.ThresholdZeroOne.
//
// σ は通さない。σ(x·w) >= 0.5 とは x·w ∈ [0, 0.5) の行で結果が異なる。
func PredictZeroOne(tx mat.Matrix, w mat.Vector) (*mat.VecDense, error) {
	s, err := Scores(tx, w)
	if err != nil {
		return nil, err
	}
	return labels.ThresholdZeroOne(s), nil
}
