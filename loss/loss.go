// Package loss implements the stateless loss and gradient primitives the
// solvers are built from.
//
// Conventions: MSE is scaled by 1/(2N) so that its gradient carries a 1/N
// factor. NLL is the average binary cross-entropy over {0,1} labels and is
// evaluated without clamping, so a saturated sigmoid yields +Inf or NaN.
package loss

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// CheckShapes validates that y has one entry per row of tx and that w has one
// entry per column. It returns N and D.
func CheckShapes(op string, y mat.Vector, tx mat.Matrix, w mat.Vector) (n, d int, err error) {
	n, d = tx.Dims()
	if n == 0 || d == 0 {
		return n, d, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return n, d, errors.NewDimensionError(op, n, y.Len(), 0)
	}
	if w != nil && w.Len() != d {
		return n, d, errors.NewDimensionError(op, d, w.Len(), 1)
	}
	return n, d, nil
}

// Sigmoid returns 1/(1+e^-t).
func Sigmoid(t float64) float64 {
	return 1 / (1 + math.Exp(-t))
}

// SigmoidVec applies Sigmoid elementwise.
func SigmoidVec(t mat.Vector) *mat.VecDense {
	out := mat.NewVecDense(t.Len(), nil)
	for i := 0; i < t.Len(); i++ {
		out.SetVec(i, Sigmoid(t.AtVec(i)))
	}
	return out
}

// MSE returns rᵀr / (2N) for a residual vector r of length N.
func MSE(residual mat.Vector) float64 {
	n := residual.Len()
	return mat.Dot(residual, residual) / (2 * float64(n))
}

// Residual returns e = y - tx·w.
func Residual(y mat.Vector, tx mat.Matrix, w mat.Vector) *mat.VecDense {
	var e mat.VecDense
	e.MulVec(tx, w)
	e.SubVec(y, &e)
	return &e
}

// ComputeMSE returns MSE(y - tx·w).
func ComputeMSE(y mat.Vector, tx mat.Matrix, w mat.Vector) (float64, error) {
	if _, _, err := CheckShapes("ComputeMSE", y, tx, w); err != nil {
		return 0, err
	}
	return MSE(Residual(y, tx, w)), nil
}

// GradMSE returns the MSE gradient -(1/N)·txᵀ(y - tx·w).
func GradMSE(y mat.Vector, tx mat.Matrix, w mat.Vector) (*mat.VecDense, error) {
	n, _, err := CheckShapes("GradMSE", y, tx, w)
	if err != nil {
		return nil, err
	}
	e := Residual(y, tx, w)
	var grad mat.VecDense
	grad.MulVec(tx.T(), e)
	grad.ScaleVec(-1/float64(n), &grad)
	return &grad, nil
}

// NLL returns the negative log-likelihood
// -(1/N)·Σ[y·log σ(x·w) + (1-y)·log(1-σ(x·w))] for y in {0,1}.
func NLL(y mat.Vector, tx mat.Matrix, w mat.Vector) (float64, error) {
	n, _, err := CheckShapes("NLL", y, tx, w)
	if err != nil {
		return 0, err
	}

	var z mat.VecDense
	z.MulVec(tx, w)

	var sum float64
	for i := 0; i < n; i++ {
		s := Sigmoid(z.AtVec(i))
		yi := y.AtVec(i)
		sum += yi*math.Log(s) + (1-yi)*math.Log(1-s)
	}
	return -sum / float64(n), nil
}

// GradNLL returns (1/N)·txᵀ(σ(tx·w) - y).
func GradNLL(y mat.Vector, tx mat.Matrix, w mat.Vector) (*mat.VecDense, error) {
	n, _, err := CheckShapes("GradNLL", y, tx, w)
	if err != nil {
		return nil, err
	}

	var z mat.VecDense
	z.MulVec(tx, w)
	diff := SigmoidVec(&z)
	diff.SubVec(diff, y)

	var grad mat.VecDense
	grad.MulVec(tx.T(), diff)
	grad.ScaleVec(1/float64(n), &grad)
	return &grad, nil
}
