// Package report renders training diagnostics.
package report

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/training"
)

// Default image size of a loss plot.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// LossPlot は学習・検証損失をチェックポイントの反復回数に対して描いた図を作る
func LossPlot(checkpoints []training.Checkpoint) (*plot.Plot, error) {
	if len(checkpoints) == 0 {
		return nil, errors.NewModelError("LossPlot", "no checkpoints", errors.ErrEmptyData)
	}

	train := make(plotter.XYs, len(checkpoints))
	val := make(plotter.XYs, len(checkpoints))
	for i, c := range checkpoints {
		train[i] = plotter.XY{X: float64(c.Iteration), Y: c.TrainLoss}
		val[i] = plotter.XY{X: float64(c.Iteration), Y: c.ValLoss}
	}

	p := plot.New()
	p.Title.Text = "Regularized logistic regression"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Negative log-likelihood"
	p.Legend.Top = true

	// plotter は NaN/Inf を含む点列を拒否する
	if err := plotutil.AddLinePoints(p, "train", train, "validation", val); err != nil {
		return nil, errors.Wrap(err, "LossPlot")
	}
	return p, nil
}

// PlotLossTrace saves the loss plot to path. The image format follows the
// file extension (png, svg, pdf, ...).
func PlotLossTrace(checkpoints []training.Checkpoint, path string) error {
	p, err := LossPlot(checkpoints)
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// WriteLossTrace renders the loss plot in the given format ("png", "svg", ...)
// and writes it to w.
func WriteLossTrace(w io.Writer, checkpoints []training.Checkpoint, format string) error {
	p, err := LossPlot(checkpoints)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return errors.Wrapf(err, "format %s", format)
	}
	_, err = wt.WriteTo(w)
	return errors.WithStack(err)
}
