package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/labels"
	"github.com/YuminosukeSato/linfit/loss"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

// gradFunc returns the update direction for the current weights.
type gradFunc func(w *mat.VecDense) (*mat.VecDense, error)

// lossFunc evaluates the reported loss for the final weights.
type lossFunc func(w *mat.VecDense) (float64, error)

func checkIterative(op string, y mat.Vector, tx mat.Matrix, initialW mat.Vector, maxIters int, gamma float64) (int, int, error) {
	if initialW == nil {
		return 0, 0, errors.NewValidationError("initialW", "must not be nil", nil)
	}
	n, d, err := loss.CheckShapes(op, y, tx, initialW)
	if err != nil {
		return n, d, err
	}
	if maxIters < 0 {
		return n, d, errors.NewValidationError("maxIters", "must be non-negative", maxIters)
	}
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return n, d, errors.NewValidationError("gamma", "must be finite", gamma)
	}
	return n, d, nil
}

// descend は w ← w − γ·grad(w) を maxIters 回繰り返す
// 収束判定は行わない。
func descend(op string, cfg *config, initialW mat.Vector, maxIters int, gamma float64, grad gradFunc, final lossFunc) (*mat.VecDense, float64, error) {
	w := mat.VecDenseCopyOf(initialW)
	for iter := 1; iter <= maxIters; iter++ {
		g, err := grad(w)
		if err != nil {
			return nil, 0, err
		}
		w.AddScaledVec(w, -gamma, g)

		if cfg.hook != nil {
			if err := cfg.hook(iter, w); err != nil {
				return nil, 0, errors.Wrapf(err, "%s: iteration %d", op, iter)
			}
		}
	}

	l, err := final(w)
	if err != nil {
		return nil, 0, err
	}
	if err := errors.CheckNumericalStability(op, w.RawVector().Data, maxIters); err != nil {
		errors.Warn(err)
		cfg.logger.Warn("weights are not finite",
			log.IterationKey, maxIters,
			log.ErrorCodeKey, log.ErrorNumerical,
		)
	} else if errors.WarnIfUnstable(op, l, maxIters) {
		cfg.logger.Warn("final loss is not finite",
			log.IterationKey, maxIters,
			log.ErrorCodeKey, log.ErrorNumerical,
		)
	}
	cfg.logger.Debug("gradient descent finished",
		log.MaxItersKey, maxIters,
		log.LearningRateKey, gamma,
		log.LossKey, l,
	)
	return w, l, nil
}

func mseLoss(y mat.Vector, tx mat.Matrix) lossFunc {
	return func(w *mat.VecDense) (float64, error) {
		return loss.ComputeMSE(y, tx, w)
	}
}

func nllLoss(y mat.Vector, tx mat.Matrix) lossFunc {
	return func(w *mat.VecDense) (float64, error) {
		return loss.NLL(y, tx, w)
	}
}

// MeanSquaredErrorGD はバッチ勾配降下法で MSE を最小化する
// 更新式: w ← w − γ·(1/N)·Xᵀ(Xw − y)
func MeanSquaredErrorGD(y mat.Vector, tx mat.Matrix, initialW mat.Vector, maxIters int, gamma float64, opts ...Option) (w *mat.VecDense, mse float64, err error) {
	const op = "MeanSquaredErrorGD"
	defer errors.Recover(&err, op)

	if _, _, err := checkIterative(op, y, tx, initialW, maxIters, gamma); err != nil {
		return nil, 0, err
	}
	cfg := newConfig(op, opts)

	grad := func(w *mat.VecDense) (*mat.VecDense, error) {
		return loss.GradMSE(y, tx, w)
	}
	return descend(op, cfg, initialW, maxIters, gamma, grad, mseLoss(y, tx))
}

// MeanSquaredErrorSGD は確率的勾配降下法（バッチサイズ1）で MSE を最小化する
//
// 各ステップで [0, N) から一様に1行を復元抽出し、その行だけの勾配
// −(e_i/N)·x_i で更新する。1/N のスケールは全データ勾配と同じ係数を保つ。
// 乱数源は WithRand で指定する。
func MeanSquaredErrorSGD(y mat.Vector, tx mat.Matrix, initialW mat.Vector, maxIters int, gamma float64, opts ...Option) (w *mat.VecDense, mse float64, err error) {
	const op = "MeanSquaredErrorSGD"
	defer errors.Recover(&err, op)

	n, d, err := checkIterative(op, y, tx, initialW, maxIters, gamma)
	if err != nil {
		return nil, 0, err
	}
	cfg := newConfig(op, opts)

	g := mat.NewVecDense(d, nil)
	row := make([]float64, d)
	grad := func(w *mat.VecDense) (*mat.VecDense, error) {
		i := cfg.rng.Intn(n)
		mat.Row(row, i, tx)
		xi := mat.NewVecDense(d, row)
		e := y.AtVec(i) - mat.Dot(xi, w)
		g.ScaleVec(-e/float64(n), xi)
		return g, nil
	}
	return descend(op, cfg, initialW, maxIters, gamma, grad, mseLoss(y, tx))
}

// LogisticRegression は正則化なしのロジスティック回帰を勾配降下法で学習する
// ラベルは {0,1} でなければならない。
func LogisticRegression(y mat.Vector, tx mat.Matrix, initialW mat.Vector, maxIters int, gamma float64, opts ...Option) (w *mat.VecDense, nll float64, err error) {
	const op = "LogisticRegression"
	defer errors.Recover(&err, op)

	if _, _, err := checkIterative(op, y, tx, initialW, maxIters, gamma); err != nil {
		return nil, 0, err
	}
	if err := labels.ZeroOne.Validate(op, y); err != nil {
		return nil, 0, err
	}
	cfg := newConfig(op, opts)

	grad := func(w *mat.VecDense) (*mat.VecDense, error) {
		return loss.GradNLL(y, tx, w)
	}
	return descend(op, cfg, initialW, maxIters, gamma, grad, nllLoss(y, tx))
}

// RegLogisticRegression は L2 正則化付きロジスティック回帰
// 勾配は grad_nll + 2λw。報告する損失は正則化項を含まない NLL。
func RegLogisticRegression(y mat.Vector, tx mat.Matrix, lambda float64, initialW mat.Vector, maxIters int, gamma float64, opts ...Option) (w *mat.VecDense, nll float64, err error) {
	const op = "RegLogisticRegression"
	defer errors.Recover(&err, op)

	if _, _, err := checkIterative(op, y, tx, initialW, maxIters, gamma); err != nil {
		return nil, 0, err
	}
	if lambda < 0 {
		return nil, 0, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}
	if err := labels.ZeroOne.Validate(op, y); err != nil {
		return nil, 0, err
	}
	cfg := newConfig(op, opts)

	grad := func(w *mat.VecDense) (*mat.VecDense, error) {
		g, err := loss.GradNLL(y, tx, w)
		if err != nil {
			return nil, err
		}
		g.AddScaledVec(g, 2*lambda, w)
		return g, nil
	}
	return descend(op, cfg, initialW, maxIters, gamma, grad, nllLoss(y, tx))
}

// L1RegLogisticRegression は L1 正則化付きロジスティック回帰（劣勾配法）
// 勾配は grad_nll + λ·sign(w) で、sign(0) = 0 とする。
func L1RegLogisticRegression(y mat.Vector, tx mat.Matrix, lambda float64, initialW mat.Vector, maxIters int, gamma float64, opts ...Option) (w *mat.VecDense, nll float64, err error) {
	const op = "L1RegLogisticRegression"
	defer errors.Recover(&err, op)

	_, d, err := checkIterative(op, y, tx, initialW, maxIters, gamma)
	if err != nil {
		return nil, 0, err
	}
	if lambda < 0 {
		return nil, 0, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}
	if err := labels.ZeroOne.Validate(op, y); err != nil {
		return nil, 0, err
	}
	cfg := newConfig(op, opts)

	sign := mat.NewVecDense(d, nil)
	grad := func(w *mat.VecDense) (*mat.VecDense, error) {
		g, err := loss.GradNLL(y, tx, w)
		if err != nil {
			return nil, err
		}
		for j := 0; j < d; j++ {
			sign.SetVec(j, Sign(w.AtVec(j)))
		}
		g.AddScaledVec(g, lambda, sign)
		return g, nil
	}
	return descend(op, cfg, initialW, maxIters, gamma, grad, nllLoss(y, tx))
}

// Sign returns -1, 0 or 1 according to the sign of v. Sign(0) is 0 and
// Sign(NaN) is NaN.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v * 0
	}
}
