// Package log defines standard attribute keys for linfit training runs.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that solver, training-loop and pipeline logs can be
// filtered the same way.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the solver or pipeline.
	// Examples: "RegLogisticRegression", "LeastSquares", "RegLogistic"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "sweep"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "training", "preprocessing", "tuning"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of a run.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of rows (N) of the design matrix.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of columns (D) of the design matrix.
	FeaturesKey = "data.features"

	// ValidationSamplesKey is the number of held-out rows.
	ValidationSamplesKey = "data.validation_samples"
)

// Metrics and progress.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	F1Key         = "metrics.f1"
	LossKey       = "metrics.loss"
	ValLossKey    = "metrics.val_loss"
	MSEKey        = "metrics.mse"
	IterationKey  = "training.iteration"
	MaxItersKey   = "training.max_iters"
)

// Hyperparameters.
const (
	// LearningRateKey records the step size gamma.
	LearningRateKey = "hyperparams.learning_rate"

	// RegularizationKey records the penalty strength lambda.
	RegularizationKey = "hyperparams.regularization"

	// DegreeKey records the polynomial expansion degree.
	DegreeKey = "hyperparams.degree"

	// RandomSeedKey records the seed used for splits and SGD.
	RandomSeedKey = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"
	OperationSweep     = "sweep"

	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhasePreprocessing = "preprocessing"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorDegenerateInput   = "DEGENERATE_INPUT"
	ErrorInvalidLabel      = "INVALID_LABEL"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
