// Package linear implements the linear and logistic solvers: closed-form
// least squares and ridge regression, and fixed-count gradient descent for
// the squared and logistic losses.
//
// Every solver takes labels y (length N), a design matrix tx (N×D) and returns
// the weight vector together with the final loss. Inputs are never mutated.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/loss"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

// pinvRcond は numpy.linalg.pinv と同じ特異値の打ち切り係数
const pinvRcond = 1e-15

// LeastSquares は擬似逆行列で最小二乗解を求める
// XᵀX がランク落ちしていても最小ノルム解を返す。
func LeastSquares(y mat.Vector, tx mat.Matrix, opts ...Option) (w *mat.VecDense, mse float64, err error) {
	const op = "LeastSquares"
	defer errors.Recover(&err, op)

	n, d, err := loss.CheckShapes(op, y, tx, nil)
	if err != nil {
		return nil, 0, err
	}
	cfg := newConfig(op, opts)

	var svd mat.SVD
	if ok := svd.Factorize(tx, mat.SVDThin); !ok {
		return nil, 0, errors.NewModelError(op, "svd did not converge", errors.ErrSingularMatrix)
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// w = V Σ⁺ Uᵀ y, 打ち切り以下の特異値は 0 として扱う
	cutoff := pinvRcond * values[0]
	var uty mat.VecDense
	uty.MulVec(u.T(), y)
	rank := 0
	for i, s := range values {
		if s > cutoff {
			uty.SetVec(i, uty.AtVec(i)/s)
			rank++
		} else {
			uty.SetVec(i, 0)
		}
	}
	w = mat.NewVecDense(d, nil)
	w.MulVec(&v, &uty)

	mse = loss.MSE(loss.Residual(y, tx, w))
	errors.WarnIfUnstable(op, mse, 0)
	cfg.logger.Debug("least squares solved",
		log.SamplesKey, n,
		log.FeaturesKey, d,
		"rank", rank,
		log.MSEKey, mse,
	)
	return w, mse, nil
}

// RidgeRegression は (XᵀX + 2Nλ I) w = Xᵀy を解く
// λ を 2N 倍するのは MSE を 1/(2N) でスケールしているため。
func RidgeRegression(y mat.Vector, tx mat.Matrix, lambda float64, opts ...Option) (w *mat.VecDense, mse float64, err error) {
	const op = "RidgeRegression"
	defer errors.Recover(&err, op)

	n, d, err := loss.CheckShapes(op, y, tx, nil)
	if err != nil {
		return nil, 0, err
	}
	if lambda < 0 {
		return nil, 0, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}
	cfg := newConfig(op, opts)

	a := mat.NewDense(d, d, nil)
	a.Mul(tx.T(), tx)
	shift := 2 * float64(n) * lambda
	for i := 0; i < d; i++ {
		a.Set(i, i, a.At(i, i)+shift)
	}
	var b mat.VecDense
	b.MulVec(tx.T(), y)

	w = mat.NewVecDense(d, nil)
	if err := w.SolveVec(a, &b); err != nil {
		var cond mat.Condition
		// 条件数が +Inf なら特異で、SolveVec の解は使えない
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, 0, errors.NewModelError(op, "singular system", errors.ErrSingularMatrix)
		}
		// 有限の大きな条件数なら解は得られている
		cfg.logger.Warn("ill-conditioned ridge system",
			"condition", float64(cond),
			log.RegularizationKey, lambda,
		)
	}

	mse = loss.MSE(loss.Residual(y, tx, w))
	errors.WarnIfUnstable(op, mse, 0)
	cfg.logger.Debug("ridge regression solved",
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.RegularizationKey, lambda,
		log.MSEKey, mse,
	)
	return w, mse, nil
}
