// Command linfit trains the regularized logistic pipeline on a CSV dataset
// and writes an Id,Prediction submission for the test rows.
//
// Usage:
//
//	linfit -data ./dataset -out submission.csv [-split 0.8 -plot loss.png]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/YuminosukeSato/linfit/dataset"
	"github.com/YuminosukeSato/linfit/pipeline"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
	"github.com/YuminosukeSato/linfit/report"
	"github.com/YuminosukeSato/linfit/selection"
	"github.com/YuminosukeSato/linfit/tuning"
)

type options struct {
	dataDir     string
	out         string
	logLevel    string
	cols        string
	degree      int
	lambda      float64
	gamma       float64
	iters       int
	split       float64
	seed        int64
	plotPath    string
	sweepLambda string
	sweepGamma  string
	workers     int
	baseline    int
	baselineOut string
	quietWarn   bool
}

func parseFlags(args []string) (*options, error) {
	def := pipeline.DefaultConfig()
	o := &options{}

	fs := flag.NewFlagSet("linfit", flag.ContinueOnError)
	fs.StringVar(&o.dataDir, "data", "", "directory holding x_train.csv, y_train.csv and x_test.csv")
	fs.StringVar(&o.out, "out", "submission.csv", "submission file to write")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&o.cols, "cols", fmt.Sprintf("%d:%d", def.ColFrom, def.ColTo), "feature column range from:to, empty for all columns")
	fs.IntVar(&o.degree, "degree", def.Degree, "polynomial expansion degree, 0 to disable")
	fs.Float64Var(&o.lambda, "lambda", def.Lambda, "L2 regularization strength")
	fs.Float64Var(&o.gamma, "gamma", def.Gamma, "gradient descent step size")
	fs.IntVar(&o.iters, "iters", def.MaxIters, "gradient descent iterations")
	fs.Float64Var(&o.split, "split", 0, "fraction of training rows kept for fitting when tracing validation loss, 0 to skip")
	fs.Int64Var(&o.seed, "seed", 1, "seed of the validation split")
	fs.StringVar(&o.plotPath, "plot", "", "write the loss trace plot to this file (needs -split)")
	fs.StringVar(&o.sweepLambda, "sweep-lambdas", "", "comma separated lambdas to compare on the validation split")
	fs.StringVar(&o.sweepGamma, "sweep-gammas", "", "comma separated step sizes for the sweep, defaults to -gamma")
	fs.IntVar(&o.workers, "workers", 0, "concurrent fits during a sweep, 0 for one per CPU")
	fs.IntVar(&o.baseline, "baseline-col", -1, "also write a single-column baseline submission using this column")
	fs.StringVar(&o.baselineOut, "baseline-out", "baseline.csv", "baseline submission file")
	fs.BoolVar(&o.quietWarn, "quiet-warnings", false, "drop undefined-metric and numerical warnings")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.dataDir == "" {
		return nil, errors.NewValidationError("data", "is required", o.dataDir)
	}
	return o, nil
}

func parseColumns(s string) (from, to int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, errors.NewValidationError("cols", "expected from:to", s)
	}
	if from, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, errors.Wrap(err, "cols")
	}
	if to, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, errors.Wrap(err, "cols")
	}
	return from, to, nil
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	var out []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func (o *options) config() (pipeline.Config, error) {
	from, to, err := parseColumns(o.cols)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		ColFrom:  from,
		ColTo:    to,
		Degree:   o.degree,
		Lambda:   o.lambda,
		Gamma:    o.gamma,
		MaxIters: o.iters,
	}, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := log.SetupLogger(o.logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var suppressed func() int64
	if o.quietWarn {
		suppressed = silenceWarnings()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = execute(ctx, o)
	if suppressed != nil {
		slog.Info("warnings suppressed", "count", suppressed())
	}
	if err != nil {
		slog.Error("linfit failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

// silenceWarnings は errors.Warn の出力を捨て、捨てた件数を返す関数を返す
func silenceWarnings() func() int64 {
	var n atomic.Int64
	errors.SetZerologWarnFunc(nil)
	errors.SetWarningHandler(func(error) { n.Add(1) })
	return n.Load
}

// execute runs the command and turns a panic inside it into an error.
func execute(ctx context.Context, o *options) error {
	return errors.SafeExecute("linfit", func() error {
		return run(ctx, o)
	})
}

func run(ctx context.Context, o *options) error {
	start := time.Now()
	cfg, err := o.config()
	if err != nil {
		return err
	}

	data, err := dataset.LoadCSVData(o.dataDir)
	if err != nil {
		return err
	}

	if o.baseline >= 0 {
		base, err := pipeline.ColumnBaseline(data.XTest, o.baseline)
		if err != nil {
			return err
		}
		if err := dataset.WriteSubmissionFile(o.baselineOut, data.TestIDs, base); err != nil {
			return err
		}
	}

	if o.split > 0 {
		if err := validate(ctx, o, &cfg, data); err != nil {
			return err
		}
	}

	model := pipeline.NewRegLogistic(cfg)
	if err := model.Fit(data.XTrain, data.YTrain); err != nil {
		return err
	}
	rep, err := model.TrainingReport()
	if err != nil {
		return err
	}
	slog.Info("training set",
		log.LossKey, rep.NLL,
		log.MSEKey, rep.HalfMSE,
		log.F1Key, rep.F1,
		log.AccuracyKey, rep.Accuracy,
	)

	pred, err := model.Predict(data.XTest)
	if err != nil {
		return err
	}
	if err := dataset.WriteSubmissionFile(o.out, data.TestIDs, pred); err != nil {
		return err
	}
	slog.Info("done", "file", o.out, log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

// validate は学習データを分割し、損失の推移と任意のグリッド探索を行う
// 探索した場合は最良の λ, γ を cfg に反映する。
func validate(ctx context.Context, o *options, cfg *pipeline.Config, data *dataset.Data) error {
	xTrain, xVal, yTrain, yVal, err := selection.SplitData(data.XTrain, data.YTrain, o.split, o.seed)
	if err != nil {
		return err
	}
	if xTrain == nil || xVal == nil {
		return errors.NewValidationError("split", "both partitions must be non-empty", o.split)
	}

	lambdas, err := parseFloats(o.sweepLambda)
	if err != nil {
		return err
	}
	gammas, err := parseFloats(o.sweepGamma)
	if err != nil {
		return err
	}
	if len(lambdas) > 0 {
		if len(gammas) == 0 {
			gammas = []float64{cfg.Gamma}
		}
		res, err := pipeline.Sweep(ctx, *cfg, tuning.Grid{Lambdas: lambdas, Gammas: gammas},
			xTrain, yTrain, xVal, yVal, o.workers)
		if err != nil {
			return err
		}
		best := res.BestTrial()
		slog.Info("sweep best",
			log.RegularizationKey, best.Lambda,
			log.LearningRateKey, best.Gamma,
			log.F1Key, best.ValF1,
		)
		cfg.Lambda, cfg.Gamma = best.Lambda, best.Gamma
	}

	trace, err := pipeline.TrainingTrace(*cfg, xTrain, yTrain, xVal, yVal)
	if err != nil {
		return err
	}
	for _, c := range trace.Checkpoints {
		slog.Info("checkpoint",
			log.IterationKey, c.Iteration,
			log.LossKey, c.TrainLoss,
			log.ValLossKey, c.ValLoss,
		)
	}
	if o.plotPath != "" {
		if err := report.PlotLossTrace(trace.Checkpoints, o.plotPath); err != nil {
			return err
		}
	}
	return nil
}
