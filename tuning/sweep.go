// Package tuning runs a grid of L2-regularized logistic fits concurrently and
// ranks them by validation F1.
package tuning

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/core/parallel"
	"github.com/YuminosukeSato/linfit/linear"
	"github.com/YuminosukeSato/linfit/metrics"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

// Params is one point of the grid.
type Params struct {
	Lambda float64
	Gamma  float64
}

func (p Params) String() string {
	return fmt.Sprintf("lambda=%g gamma=%g", p.Lambda, p.Gamma)
}

// Grid is the cartesian product of Lambdas and Gammas.
type Grid struct {
	Lambdas []float64
	Gammas  []float64
}

// Points enumerates the grid, lambdas varying slowest.
func (g Grid) Points() []Params {
	return lo.FlatMap(lo.Uniq(g.Lambdas), func(lambda float64, _ int) []Params {
		return lo.Map(lo.Uniq(g.Gammas), func(gamma float64, _ int) Params {
			return Params{Lambda: lambda, Gamma: gamma}
		})
	})
}

// Config holds the data and fixed settings shared by every trial.
// Labels are {0,1}-encoded.
type Config struct {
	Y        mat.Vector
	TX       mat.Matrix
	XVal     mat.Matrix
	YVal     mat.Vector
	InitialW mat.Vector
	MaxIters int
	Grid     Grid

	// Workers bounds the number of concurrent fits; 0 means one per CPU.
	Workers int
	Logger  log.Logger
}

// Trial is the outcome of fitting one grid point.
type Trial struct {
	Params
	Weights   *mat.VecDense
	TrainLoss float64
	ValF1     float64
}

// Result lists every trial in grid order together with the index of the best.
type Result struct {
	Trials []Trial
	Best   int
}

// BestTrial returns the trial with the highest validation F1.
func (r *Result) BestTrial() Trial {
	return r.Trials[r.Best]
}

// Sweep は各グリッド点で RegLogisticRegression を並列に学習し、検証データの F1 で評価する
//
// 各試行は自分の重みベクトルを持つため共有状態はない。ctx がキャンセルされると
// 実行中の試行は次の反復で中断され、ctx のエラーを返す。
func Sweep(ctx context.Context, cfg Config) (*Result, error) {
	points := cfg.Grid.Points()
	if len(points) == 0 {
		return nil, errors.NewValidationError("grid", "must contain at least one lambda and one gamma", cfg.Grid)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("tuning")
	}
	logger = logger.With(log.OperationKey, log.OperationSweep)
	logger.Info("sweep started", "trials", len(points), log.MaxItersKey, cfg.MaxIters)
	start := time.Now()

	trials := make([]Trial, len(points))
	err := parallel.ForEach(ctx, len(points), cfg.Workers, func(ctx context.Context, i int) error {
		p := points[i]
		abort := linear.WithIterationHook(func(int, *mat.VecDense) error {
			return ctx.Err()
		})
		w, trainLoss, err := linear.RegLogisticRegression(cfg.Y, cfg.TX, p.Lambda, cfg.InitialW, cfg.MaxIters, p.Gamma,
			abort, linear.WithLogger(logger))
		if err != nil {
			return errors.Wrapf(err, "trial %s", p)
		}

		pred, err := linear.PredictZeroOne(cfg.XVal, w)
		if err != nil {
			return errors.Wrapf(err, "trial %s", p)
		}
		f1, err := metrics.F1ZeroOne(cfg.YVal, pred)
		if err != nil {
			return errors.Wrapf(err, "trial %s", p)
		}

		trials[i] = Trial{Params: p, Weights: w, TrainLoss: trainLoss, ValF1: f1}
		logger.Debug("trial finished",
			log.RegularizationKey, p.Lambda,
			log.LearningRateKey, p.Gamma,
			log.LossKey, trainLoss,
			log.F1Key, f1,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	scores := lo.Map(trials, func(t Trial, _ int) float64 { return t.ValF1 })
	best := floats.MaxIdx(scores)
	logger.Info("sweep finished",
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.RegularizationKey, trials[best].Lambda,
		log.LearningRateKey, trials[best].Gamma,
		log.F1Key, trials[best].ValF1,
	)
	return &Result{Trials: trials, Best: best}, nil
}
