// Package labels tracks the two binary label encodings used across linfit and
// converts between them.
//
// Loss functions work on {0,1}. Metrics, pipelines and submission files work
// on {-1,1}. Converters are total only over already-binary input: any other
// value fails with an InvalidLabelError instead of being silently mapped.
package labels

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

// Encoding identifies a binary label convention.
type Encoding int

const (
	// ZeroOne is the {0,1} encoding consumed by the logistic loss.
	ZeroOne Encoding = iota
	// PlusMinus is the {-1,1} encoding used by metrics and submissions.
	PlusMinus
)

// String returns the set notation of the encoding.
func (e Encoding) String() string {
	switch e {
	case ZeroOne:
		return "{0,1}"
	case PlusMinus:
		return "{-1,1}"
	default:
		return "unknown"
	}
}

// Negative returns the label of the negative class.
func (e Encoding) Negative() float64 {
	if e == PlusMinus {
		return -1
	}
	return 0
}

// Contains reports whether v is a valid label in this encoding.
func (e Encoding) Contains(v float64) bool {
	return v == 1 || v == e.Negative()
}

// Validate returns an InvalidLabelError for the first value of y outside e.
func (e Encoding) Validate(op string, y mat.Vector) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); !e.Contains(v) {
			return errors.NewInvalidLabelError(op, i, v, e.String())
		}
	}
	return nil
}

func convert(op string, y mat.Vector, from, to Encoding) (*mat.VecDense, error) {
	n := y.Len()
	if n == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		switch v := y.AtVec(i); v {
		case 1:
			out.SetVec(i, 1)
		case from.Negative():
			out.SetVec(i, to.Negative())
		default:
			return nil, errors.NewInvalidLabelError(op, i, v, from.String())
		}
	}
	return out, nil
}

// ToPlusMinus converts {0,1} labels to {-1,1}.
func ToPlusMinus(y mat.Vector) (*mat.VecDense, error) {
	return convert("ToPlusMinus", y, ZeroOne, PlusMinus)
}

// ToZeroOne converts {-1,1} labels to {0,1}.
func ToZeroOne(y mat.Vector) (*mat.VecDense, error) {
	return convert("ToZeroOne", y, PlusMinus, ZeroOne)
}

func threshold(scores mat.Vector, cut float64, enc Encoding) *mat.VecDense {
	n := scores.Len()
	if n == 0 {
		return &mat.VecDense{}
	}
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) < cut {
			out.SetVec(i, enc.Negative())
		} else {
			out.SetVec(i, 1)
		}
	}
	return out
}

// ThresholdZeroOne classifies scores meant for the {0,1} encoding: values
// below 0.5 become 0, everything else 1.
func ThresholdZeroOne(scores mat.Vector) *mat.VecDense {
	return threshold(scores, 0.5, ZeroOne)
}

// ThresholdPlusMinus classifies scores meant for the {-1,1} encoding: values
// below 0 become -1, everything else 1.
func ThresholdPlusMinus(scores mat.Vector) *mat.VecDense {
	return threshold(scores, 0, PlusMinus)
}
