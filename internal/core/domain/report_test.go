package domain_test

import (
	"errors"
	"testing"

	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_AddSplitsOutcomes(t *testing.T) {
	var report domain.Report
	report.Add(domain.Outcome{Identifier: `App\A`})
	report.Add(domain.Outcome{Identifier: `App\B`, Err: errors.New("boom")})
	report.Add(domain.Outcome{Identifier: `App\C`})

	assert.Equal(t, []string{`App\A`, `App\C`}, report.Generated)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, `App\B`, report.Failed[0].Identifier)
}

func TestReport_ErrNilWhenAllSucceeded(t *testing.T) {
	var report domain.Report
	report.Add(domain.Outcome{Identifier: `App\A`})
	assert.NoError(t, report.Err())
}

func TestReport_ErrCarriesEveryFailure(t *testing.T) {
	var report domain.Report
	report.Add(domain.Outcome{Identifier: `App\A`, Err: errors.New("read failed")})
	report.Add(domain.Outcome{Identifier: `App\B`, Err: errors.New("write failed")})

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `App\A`)
	assert.Contains(t, err.Error(), `App\B`)
	assert.Contains(t, err.Error(), "read failed")
	assert.Contains(t, err.Error(), "write failed")
}
