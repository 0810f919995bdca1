package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/linfit/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager("RegLogistic")
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("Predict")
	require.Error(t, err)
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "RegLogistic", notFitted.ModelName)

	s.MarkFitted(3, 10)
	assert.True(t, s.IsFitted())
	nf, ns := s.GetDimensions()
	assert.Equal(t, 3, nf)
	assert.Equal(t, 10, ns)

	assert.NoError(t, s.RequireFeatures("Predict", 3))
	err = s.RequireFeatures("Predict", 4)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 4, dimErr.Got)

	s.Reset()
	assert.False(t, s.IsFitted())
}
