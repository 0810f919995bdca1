package pipeline

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/labels"
	"github.com/YuminosukeSato/linfit/linear"
	"github.com/YuminosukeSato/linfit/preprocessing"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/training"
	"github.com/YuminosukeSato/linfit/tuning"
)

// Design applies the feature steps of cfg to training and held-out rows.
// Both are standardized with statistics of the training rows.
func Design(cfg Config, XTrain, XVal mat.Matrix) (trainTx, valTx *mat.Dense, err error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	train, err := cfg.features(XTrain)
	if err != nil {
		return nil, nil, err
	}
	val, err := cfg.features(XVal)
	if err != nil {
		return nil, nil, err
	}
	scaler := preprocessing.NewStandardScaler()
	if trainTx, err = scaler.FitTransform(train); err != nil {
		return nil, nil, err
	}
	if valTx, err = scaler.Transform(val); err != nil {
		return nil, nil, err
	}
	return trainTx, valTx, nil
}

// heldOut は特徴量行列と {0,1} に変換したラベルをまとめて返す
func heldOut(cfg Config, XTrain mat.Matrix, yTrain mat.Vector, XVal mat.Matrix, yVal mat.Vector) (tx, vx *mat.Dense, ty, vy *mat.VecDense, err error) {
	tx, vx, err = Design(cfg, XTrain, XVal)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if ty, err = labels.ToZeroOne(yTrain); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "training labels")
	}
	if vy, err = labels.ToZeroOne(yVal); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "validation labels")
	}
	return tx, vx, ty, vy, nil
}

// TrainingTrace は cfg の前処理を施したうえで training.Run を実行し、
// 学習・検証損失の推移を返す。ラベルは {-1,1}。
func TrainingTrace(cfg Config, XTrain mat.Matrix, yTrain mat.Vector, XVal mat.Matrix, yVal mat.Vector, opts ...linear.Option) (*training.Result, error) {
	tx, vx, ty, vy, err := heldOut(cfg, XTrain, yTrain, XVal, yVal)
	if err != nil {
		return nil, err
	}
	_, d := tx.Dims()
	return training.Run(training.Config{
		Y:        ty,
		TX:       tx,
		Lambda:   cfg.Lambda,
		InitialW: mat.NewVecDense(d, nil),
		MaxIters: cfg.MaxIters,
		Gamma:    cfg.Gamma,
		XVal:     vx,
		YVal:     vy,
	}, opts...)
}

// Sweep runs tuning.Sweep over grid on the preprocessed rows. cfg.Lambda and
// cfg.Gamma are ignored in favour of the grid. Labels are {-1,1}.
func Sweep(ctx context.Context, cfg Config, grid tuning.Grid, XTrain mat.Matrix, yTrain mat.Vector, XVal mat.Matrix, yVal mat.Vector, workers int) (*tuning.Result, error) {
	tx, vx, ty, vy, err := heldOut(cfg, XTrain, yTrain, XVal, yVal)
	if err != nil {
		return nil, err
	}
	_, d := tx.Dims()
	return tuning.Sweep(ctx, tuning.Config{
		Y:        ty,
		TX:       tx,
		XVal:     vx,
		YVal:     vy,
		InitialW: mat.NewVecDense(d, nil),
		MaxIters: cfg.MaxIters,
		Grid:     grid,
		Workers:  workers,
	})
}
