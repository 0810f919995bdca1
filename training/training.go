// Package training runs L2-regularized logistic gradient descent while
// tracking the training and validation loss at regular checkpoints.
package training

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/labels"
	"github.com/YuminosukeSato/linfit/linear"
	"github.com/YuminosukeSato/linfit/loss"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

// Checkpoints is the number of evenly spaced loss measurements per run when
// MaxIters is a multiple of it.
const Checkpoints = 5

// Config describes one training run. Labels are {0,1}-encoded.
type Config struct {
	Y        mat.Vector
	TX       mat.Matrix
	Lambda   float64
	InitialW mat.Vector
	MaxIters int
	Gamma    float64

	XVal mat.Matrix
	YVal mat.Vector

	// Logger defaults to the "training" component logger.
	Logger log.Logger
}

// Checkpoint holds the losses measured after Iteration updates.
type Checkpoint struct {
	Iteration int
	TrainLoss float64
	ValLoss   float64
}

// Result is the outcome of Run.
type Result struct {
	Weights     *mat.VecDense
	FinalLoss   float64
	Checkpoints []Checkpoint
}

// TrainTrace returns the training losses in checkpoint order.
func (r *Result) TrainTrace() []float64 {
	out := make([]float64, len(r.Checkpoints))
	for i, c := range r.Checkpoints {
		out[i] = c.TrainLoss
	}
	return out
}

// ValTrace returns the validation losses in checkpoint order.
func (r *Result) ValTrace() []float64 {
	out := make([]float64, len(r.Checkpoints))
	for i, c := range r.Checkpoints {
		out[i] = c.ValLoss
	}
	return out
}

// Interval returns the number of updates between checkpoints,
// ⌊maxIters/5⌋. maxIters below 5 would make it 0 and is rejected.
func Interval(maxIters int) (int, error) {
	if maxIters < Checkpoints {
		return 0, errors.NewValidationError("maxIters", "must be at least 5 to place loss checkpoints", maxIters)
	}
	return maxIters / Checkpoints, nil
}

func (c *Config) validate() error {
	const op = "training.Run"
	if c.Y == nil || c.TX == nil || c.XVal == nil || c.YVal == nil {
		return errors.NewValidationError("data", "training and validation sets are required", nil)
	}
	if c.InitialW == nil {
		return errors.NewValidationError("initialW", "must not be nil", nil)
	}
	if _, _, err := loss.CheckShapes(op, c.YVal, c.XVal, c.InitialW); err != nil {
		return err
	}
	return labels.ZeroOne.Validate(op, c.YVal)
}

// Run trains with linear.RegLogisticRegression. After the update of 1-based
// iteration k, whenever k is a multiple of Interval(MaxIters), the training
// NLL and the validation NLL of the in-progress weights are recorded.
func Run(cfg Config, opts ...linear.Option) (*Result, error) {
	interval, err := Interval(cfg.MaxIters)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("training")
	}
	nVal, _ := cfg.XVal.Dims()
	logger.Info("training started",
		log.PhaseKey, log.PhaseTraining,
		log.MaxItersKey, cfg.MaxIters,
		log.LearningRateKey, cfg.Gamma,
		log.RegularizationKey, cfg.Lambda,
		log.ValidationSamplesKey, nVal,
	)

	checkpoints := make([]Checkpoint, 0, cfg.MaxIters/interval)
	hook := func(iter int, w *mat.VecDense) error {
		if iter%interval != 0 {
			return nil
		}
		trainLoss, err := loss.NLL(cfg.Y, cfg.TX, w)
		if err != nil {
			return err
		}
		valLoss, err := loss.NLL(cfg.YVal, cfg.XVal, w)
		if err != nil {
			return err
		}
		checkpoints = append(checkpoints, Checkpoint{Iteration: iter, TrainLoss: trainLoss, ValLoss: valLoss})
		if logger.Enabled(context.Background(), log.LevelDebug) {
			logger.Debug("checkpoint",
				log.IterationKey, iter,
				log.LossKey, trainLoss,
				log.ValLossKey, valLoss,
			)
		}
		return nil
	}

	opts = append(opts[:len(opts):len(opts)], linear.WithIterationHook(hook))
	w, final, err := linear.RegLogisticRegression(cfg.Y, cfg.TX, cfg.Lambda, cfg.InitialW, cfg.MaxIters, cfg.Gamma, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "training")
	}

	logger.Info("training finished",
		log.LossKey, final,
		"checkpoints", len(checkpoints),
	)
	return &Result{Weights: w, FinalLoss: final, Checkpoints: checkpoints}, nil
}

// Training は Run の簡易版で、最終的な重みと学習・検証損失の履歴を返す
func Training(y mat.Vector, tx mat.Matrix, lambda float64, initialW mat.Vector, maxIters int, gamma float64,
	xVal mat.Matrix, yVal mat.Vector, opts ...linear.Option) (*mat.VecDense, []float64, []float64, error) {
	res, err := Run(Config{
		Y:        y,
		TX:       tx,
		Lambda:   lambda,
		InitialW: initialW,
		MaxIters: maxIters,
		Gamma:    gamma,
		XVal:     xVal,
		YVal:     yVal,
	}, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return res.Weights, res.TrainTrace(), res.ValTrace(), nil
}
