package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func validFiles() map[string]string {
	return map[string]string{
		XTrainFile: "Id,a,b\n0,1.5,\n1,nan,2\n2,3,4\n",
		YTrainFile: "Id,_MICHD\n0,-1\n1,1\n2,-1\n",
		XTestFile:  "Id,a,b\n10,0,NaN\n11,1,1\n",
	}
}

func TestLoadCSVData(t *testing.T) {
	data, err := LoadCSVData(writeDataset(t, validFiles()))
	require.NoError(t, err)

	r, c := data.XTrain.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1.5, data.XTrain.At(0, 0))
	assert.True(t, math.IsNaN(data.XTrain.At(0, 1)))
	assert.True(t, math.IsNaN(data.XTrain.At(1, 0)))
	assert.Equal(t, 4.0, data.XTrain.At(2, 1))

	assert.Equal(t, []float64{-1, 1, -1}, data.YTrain.RawVector().Data)
	assert.Equal(t, []int{0, 1, 2}, data.TrainIDs)
	assert.Equal(t, []int{10, 11}, data.TestIDs)
	assert.Equal(t, []string{"a", "b"}, data.Columns)
	assert.True(t, math.IsNaN(data.XTest.At(0, 1)))
}

func TestLoadCSVDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(files map[string]string)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "missing file",
			modify: func(f map[string]string) { delete(f, XTestFile) },
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), XTestFile)
			},
		},
		{
			name:   "label count mismatch",
			modify: func(f map[string]string) { f[YTrainFile] = "Id,y\n0,1\n1,-1\n" },
			check: func(t *testing.T, err error) {
				var dimErr *errors.DimensionError
				assert.True(t, errors.As(err, &dimErr))
			},
		},
		{
			name:   "id order mismatch",
			modify: func(f map[string]string) { f[YTrainFile] = "Id,y\n0,1\n2,-1\n1,1\n" },
			check: func(t *testing.T, err error) {
				var vErr *errors.ValidationError
				assert.True(t, errors.As(err, &vErr))
			},
		},
		{
			name:   "test width mismatch",
			modify: func(f map[string]string) { f[XTestFile] = "Id,a\n10,1\n" },
			check: func(t *testing.T, err error) {
				var dimErr *errors.DimensionError
				assert.True(t, errors.As(err, &dimErr))
			},
		},
		{
			name:   "unparsable cell",
			modify: func(f map[string]string) { f[XTrainFile] = "Id,a,b\n0,x,1\n1,1,1\n2,1,1\n" },
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), `column "a"`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := validFiles()
			tt.modify(files)
			_, err := LoadCSVData(writeDataset(t, files))
			tt.check(t, err)
		})
	}
}

func TestReadTableEmpty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = ReadTable(strings.NewReader("Id,a\n"))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestCreateCSVSubmission(t *testing.T) {
	var buf bytes.Buffer
	err := CreateCSVSubmission(&buf, []int{7, 8, 9}, mat.NewVecDense(3, []float64{1, -1, 1}))
	require.NoError(t, err)
	assert.Equal(t, "Id,Prediction\n7,1\n8,-1\n9,1\n", buf.String())
}

func TestCreateCSVSubmissionRejects(t *testing.T) {
	var buf bytes.Buffer

	err := CreateCSVSubmission(&buf, []int{1, 2}, mat.NewVecDense(2, []float64{1, 0}))
	var labelErr *errors.InvalidLabelError
	require.True(t, errors.As(err, &labelErr))
	assert.Equal(t, 1, labelErr.Index)

	err = CreateCSVSubmission(&buf, []int{1}, mat.NewVecDense(2, []float64{1, -1}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
	assert.Zero(t, buf.Len())
}

func TestWriteSubmissionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.csv")
	require.NoError(t, WriteSubmissionFile(path, []int{1, 2}, mat.NewVecDense(2, []float64{-1, 1})))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Id,Prediction\n1,-1\n2,1\n", string(got))
}
