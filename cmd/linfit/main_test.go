package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-data", "d", "-cols", "2:5", "-degree", "3"})
	require.NoError(t, err)
	cfg, err := o.config()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ColFrom)
	assert.Equal(t, 5, cfg.ColTo)
	assert.Equal(t, 3, cfg.Degree)
	assert.Equal(t, 0.001, cfg.Lambda)
	assert.Equal(t, 500, cfg.MaxIters)

	_, err = parseFlags(nil)
	assert.Error(t, err)

	o.cols = "5"
	_, err = o.config()
	assert.Error(t, err)
}

func TestSilenceWarnings(t *testing.T) {
	o, err := parseFlags([]string{"-data", "d", "-quiet-warnings"})
	require.NoError(t, err)
	assert.True(t, o.quietWarn)

	suppressed := silenceWarnings()
	t.Cleanup(func() {
		errors.SetWarningHandler(func(error) {})
		log.SetProvider(log.NewZerologProvider(os.Stderr, log.LevelWarn))
	})

	errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
	errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives", 0))
	assert.Equal(t, int64(2), suppressed())
}

func TestExecuteRecoversPanic(t *testing.T) {
	// nil options は run の中で panic する
	err := execute(context.Background(), nil)
	require.Error(t, err)
	var panicErr *errors.PanicError
	assert.True(t, errors.As(err, &panicErr))
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("0.1, 1e-3")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.001}, got)

	_, err = parseFloats("a")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	xTrain := "Id,a,b\n"
	yTrain := "Id,y\n"
	for i := 0; i < 40; i++ {
		a := float64(i%10) - 4.5
		b := float64((i*7)%11) - 5
		label := "-1"
		if a+0.3*b > 0 {
			label = "1"
		}
		xTrain += formatRow(i, a, b)
		yTrain += formatLabel(i, label)
	}
	xTest := "Id,a,b\n100,3,1\n101,-3,nan\n"
	for name, content := range map[string]string{"x_train.csv": xTrain, "y_train.csv": yTrain, "x_test.csv": xTest} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	out := filepath.Join(dir, "submission.csv")
	plot := filepath.Join(dir, "loss.png")
	o, err := parseFlags([]string{
		"-data", dir, "-out", out, "-cols", "", "-degree", "2", "-iters", "50",
		"-split", "0.75", "-plot", plot, "-sweep-lambdas", "0,0.01",
		"-baseline-col", "0", "-baseline-out", filepath.Join(dir, "baseline.csv"),
	})
	require.NoError(t, err)
	require.NoError(t, execute(context.Background(), o))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Id,Prediction\n100,1\n101,-1\n", string(got))
	assert.FileExists(t, plot)

	base, err := os.ReadFile(filepath.Join(dir, "baseline.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Id,Prediction\n100,-1\n101,-1\n", string(base))
}

func formatRow(id int, a, b float64) string {
	return strconv.Itoa(id) + "," + strconv.FormatFloat(a, 'g', -1, 64) + "," + strconv.FormatFloat(b, 'g', -1, 64) + "\n"
}

func formatLabel(id int, label string) string {
	return strconv.Itoa(id) + "," + label + "\n"
}
