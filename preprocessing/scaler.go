package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/linfit/core/model"
	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// columnStats は各列の平均と母標準偏差（ddof=0）を計算する
// 定数列（分散0）や NaN/Inf を含む列があれば DegenerateInputError を返す。
func columnStats(op string, X mat.Matrix) (means, stds []float64, err error) {
	r, c, err := checkNonEmpty(op, X)
	if err != nil {
		return nil, nil, err
	}

	means = make([]float64, c)
	stds = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if floats.HasNaN(col) || math.IsInf(floats.Max(col), 1) || math.IsInf(floats.Min(col), -1) {
			return nil, nil, errors.NewDegenerateInputError(op, j, "non-finite values, impute before standardizing")
		}
		// 浮動小数点誤差で分散がわずかに正になる定数列も検出するため、値の一致で判定する
		if floats.Max(col) == floats.Min(col) {
			return nil, nil, errors.NewDegenerateInputError(op, j, "zero variance, cannot standardize")
		}
		means[j], stds[j] = stat.PopMeanStdDev(col, nil)
	}
	return means, stds, nil
}

// Standardize は各列を (x - mean) / std で標準化した新しい行列を返す
//
// 統計量は入力自身から計算され、学習状態は持たない。分散0の列は
// DegenerateInputError になる。NaN を含む列は先に補完しておくこと
// (補完していなければ同じく DegenerateInputError)。
func Standardize(X mat.Matrix) (*mat.Dense, error) {
	means, stds, err := columnStats("Standardize", X)
	if err != nil {
		return nil, err
	}
	return applyScale(X, means, stds), nil
}

func applyScale(X mat.Matrix, means, stds []float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		for j := 0; j < c; j++ {
			row[j] = (X.At(i, j) - means[j]) / stds[j]
		}
	}
	return out
}

// StandardScaler は学習データの統計量を保持する標準化スケーラー
// 学習データで Fit し、同じ統計量でテストデータを Transform する場合に使う。
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の母標準偏差
	Scale []float64
}

var _ model.Transformer = (*StandardScaler)(nil)

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler()
//	XTrainScaled, err := scaler.FitTransform(XTrain)
//	XTestScaled, err := scaler.Transform(XTest)
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager("StandardScaler")}
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	means, stds, err := columnStats("StandardScaler.Fit", X)
	if err != nil {
		return err
	}
	r, c := X.Dims()
	s.Mean = means
	s.Scale = stds
	s.state.MarkFitted(c, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	_, c := X.Dims()
	if err := s.state.RequireFeatures("Transform", c); err != nil {
		return nil, err
	}
	if _, _, err := checkNonEmpty("StandardScaler.Transform", X); err != nil {
		return nil, err
	}
	return applyScale(X, s.Mean, s.Scale), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if err := s.state.RequireFeatures("InverseTransform", c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return result, nil
}

// IsFitted reports whether Fit has succeeded.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return "StandardScaler()"
	}
	nFeatures, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(n_features=%d)", nFeatures)
}
