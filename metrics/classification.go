package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/labels"
	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// Accuracy は一致したラベルの割合を返す
func Accuracy(yTrue, yPred mat.Vector) (float64, error) {
	t, p, err := pair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	matches := 0
	for i := range t {
		if t[i] == p[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(t)), nil
}

// Confusion holds the counts of a binary confusion matrix.
type Confusion struct {
	TP, FP, FN, TN int
}

// ConfusionCounts tallies yTrue against yPred. Both must be {-1,1}-encoded.
func ConfusionCounts(yTrue, yPred mat.Vector) (Confusion, error) {
	const op = "ConfusionCounts"
	t, p, err := pair(op, yTrue, yPred)
	if err != nil {
		return Confusion{}, err
	}
	if err := labels.PlusMinus.Validate(op, yTrue); err != nil {
		return Confusion{}, err
	}
	if err := labels.PlusMinus.Validate(op, yPred); err != nil {
		return Confusion{}, err
	}

	var c Confusion
	for i := range t {
		switch {
		case t[i] == 1 && p[i] == 1:
			c.TP++
		case t[i] == -1 && p[i] == 1:
			c.FP++
		case t[i] == 1 && p[i] == -1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Precision は tp/(tp+fp)。予測陽性が無い場合は 0 を返し警告を出す
func (c Confusion) Precision() float64 {
	v, ok := errors.SafeDivide(float64(c.TP), float64(c.TP+c.FP))
	if !ok {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", v))
	}
	return v
}

// Recall は tp/(tp+fn)。真の陽性が無い場合は 0 を返し警告を出す
func (c Confusion) Recall() float64 {
	v, ok := errors.SafeDivide(float64(c.TP), float64(c.TP+c.FN))
	if !ok {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives in labels", v))
	}
	return v
}

// PrecisionRecall returns precision and recall for {-1,1}-encoded labels.
func PrecisionRecall(yTrue, yPred mat.Vector) (precision, recall float64, err error) {
	c, err := ConfusionCounts(yTrue, yPred)
	if err != nil {
		return 0, 0, err
	}
	return c.Precision(), c.Recall(), nil
}

// F1 は {-1,1} ラベルに対する F1 スコア（精度と再現率の調和平均）
//
// 精度・再現率・F1 のいずれかが 0 除算になる場合は 0 とし、
// UndefinedMetricWarning を errors.Warn に送る。
func F1(yTrue, yPred mat.Vector) (float64, error) {
	p, r, err := PrecisionRecall(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	f1, ok := errors.SafeDivide(2*p*r, p+r)
	if !ok {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", f1))
	}
	return f1, nil
}

// F1ZeroOne は {0,1} ラベルを {-1,1} に変換してから F1 を計算する
func F1ZeroOne(yTrue, yPred mat.Vector) (float64, error) {
	t, err := labels.ToPlusMinus(yTrue)
	if err != nil {
		return 0, errors.Wrap(err, "F1ZeroOne")
	}
	p, err := labels.ToPlusMinus(yPred)
	if err != nil {
		return 0, errors.Wrap(err, "F1ZeroOne")
	}
	return F1(t, p)
}
