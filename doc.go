// Package linfit fits linear and logistic models to tabular binary
// classification data with missing values.
//
// The library is organised in small packages:
//
//   - preprocessing: NaN imputation, z-score standardization, per-feature
//     polynomial expansion and column selection
//   - loss: MSE, sigmoid, negative log-likelihood and their gradients
//   - linear: closed-form least squares and ridge regression, and
//     fixed-count gradient descent for MSE and (regularized) logistic loss
//   - training: regularized logistic descent with train/validation loss
//     checkpoints
//   - labels, metrics, selection: label encodings, evaluation scores and
//     reproducible train/test splits
//   - tuning, pipeline, dataset, report: hyperparameter sweeps, the end-to-end
//     classifier, CSV input/submission output and loss plots
//
// # Quick Start
//
//	y := mat.NewVecDense(4, []float64{0, 0, 1, 1})
//	tx := mat.NewDense(4, 1, []float64{-1, -0.5, 0.5, 1})
//
//	w, nll, err := linear.RegLogisticRegression(y, tx, 0.01, mat.NewVecDense(1, nil), 100, 0.5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(w.AtVec(0), nll)
//
// # Errors
//
// Every operation returns structured errors from pkg/errors: DimensionError
// for shape mismatches, DegenerateInputError for zero-variance or
// all-missing columns, InvalidLabelError for labels outside the expected
// encoding and ValidationError for bad parameters. Warnings such as an
// undefined F1 score are routed through errors.Warn to the zerolog logger.
package linfit
