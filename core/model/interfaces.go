// Package model provides the estimator interfaces shared by linfit's
// pipelines and transformers, and the fitted-state bookkeeping they embed.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は {-1,1} エンコーディング。
	Fit(X mat.Matrix, y mat.Vector) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は {-1,1} エンコーディングの予測ラベルを返す
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Classifier combines Fitter and Predictor for binary classifiers.
type Classifier interface {
	Fitter
	Predictor

	// Weights returns a copy of the fitted weight vector.
	Weights() *mat.VecDense
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
