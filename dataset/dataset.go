// Package dataset reads the CSV training and test tables and writes
// prediction submissions.
//
// Input tables carry a header row and an Id first column. Empty cells and
// "nan" (any case) are read as NaN. Submissions are two-column Id,Prediction
// files with predictions in {-1,1}.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/labels"
	"github.com/YuminosukeSato/linfit/pkg/errors"
	"github.com/YuminosukeSato/linfit/pkg/log"
)

// File names expected by LoadCSVData.
const (
	XTrainFile = "x_train.csv"
	YTrainFile = "y_train.csv"
	XTestFile  = "x_test.csv"
)

// Data is the loaded dataset. Ids are kept apart from the features.
type Data struct {
	XTrain   *mat.Dense
	YTrain   *mat.VecDense
	XTest    *mat.Dense
	TrainIDs []int
	TestIDs  []int

	// Columns names the feature columns of XTrain and XTest.
	Columns []string
}

// Table is one parsed CSV file.
type Table struct {
	Header []string
	IDs    []int
	Values *mat.Dense
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadTable は先頭列を Id、残りを数値列として CSV を読み込む
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewModelError("ReadTable", "missing header", errors.ErrEmptyData)
		}
		return nil, errors.Wrap(err, "read header")
	}
	if len(header) < 2 {
		return nil, errors.NewValidationError("header", "need an Id column and at least one value column", header)
	}
	width := len(header) - 1

	var (
		ids    []int
		values []float64
	)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		id, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: id", line)
		}
		ids = append(ids, int(id))
		for j, cell := range rec[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: column %q", line, header[j+1])
			}
			values = append(values, v)
		}
	}
	if len(ids) == 0 {
		return nil, errors.NewModelError("ReadTable", "no data rows", errors.ErrEmptyData)
	}

	return &Table{
		Header: header,
		IDs:    ids,
		Values: mat.NewDense(len(ids), width, values),
	}, nil
}

// ReadTableFile opens path and parses it with ReadTable.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filepath.Base(path))
	}
	return t, nil
}

// LoadCSVData は dir 以下の x_train.csv, y_train.csv, x_test.csv を読み込む
// y_train.csv の2列目をラベルとして使い、Id の並びが x_train.csv と一致することを確認する。
func LoadCSVData(dir string) (*Data, error) {
	xTrain, err := ReadTableFile(filepath.Join(dir, XTrainFile))
	if err != nil {
		return nil, err
	}
	yTrain, err := ReadTableFile(filepath.Join(dir, YTrainFile))
	if err != nil {
		return nil, err
	}
	xTest, err := ReadTableFile(filepath.Join(dir, XTestFile))
	if err != nil {
		return nil, err
	}

	n, d := xTrain.Values.Dims()
	if len(yTrain.IDs) != n {
		return nil, errors.NewDimensionError("LoadCSVData", n, len(yTrain.IDs), 0)
	}
	for i, id := range yTrain.IDs {
		if id != xTrain.IDs[i] {
			return nil, errors.NewValidationError(YTrainFile, "ids do not match "+XTrainFile+" row order", id)
		}
	}
	if _, dTest := xTest.Values.Dims(); dTest != d {
		return nil, errors.NewDimensionError("LoadCSVData", d, dTest, 1)
	}

	data := &Data{
		XTrain:   xTrain.Values,
		YTrain:   mat.VecDenseCopyOf(yTrain.Values.ColView(0)),
		XTest:    xTest.Values,
		TrainIDs: xTrain.IDs,
		TestIDs:  xTest.IDs,
		Columns:  xTrain.Header[1:],
	}

	nTest, _ := xTest.Values.Dims()
	log.GetLoggerWithName("dataset").Info("dataset loaded",
		log.SamplesKey, n,
		log.FeaturesKey, d,
		"data.test_samples", nTest,
	)
	return data, nil
}

// CreateCSVSubmission は Id,Prediction 形式の提出データを w に書き出す
// 予測値は {-1,1} でなければならない。
func CreateCSVSubmission(w io.Writer, ids []int, preds mat.Vector) error {
	const op = "CreateCSVSubmission"
	if preds.Len() != len(ids) {
		return errors.NewDimensionError(op, len(ids), preds.Len(), 0)
	}
	if err := labels.PlusMinus.Validate(op, preds); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Id", "Prediction"}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i, id := range ids {
		rec := []string{strconv.Itoa(id), strconv.Itoa(int(preds.AtVec(i)))}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// WriteSubmissionFile writes a submission to path, replacing any existing file.
func WriteSubmissionFile(path string, ids []int, preds mat.Vector) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if err := CreateCSVSubmission(f, ids, preds); err != nil {
		return err
	}
	log.GetLoggerWithName("dataset").Info("submission written",
		"file", path,
		log.SamplesKey, len(ids),
	)
	return nil
}
