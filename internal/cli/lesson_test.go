package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcomes_YAML(t *testing.T) {
	data := []byte(`
- lesson_id: LES-0001
  completed_on: "2026-02-01"
- lesson_id: LES-0002
  available: false
  note: public holiday
`)
	outcomes, err := parseOutcomes(data)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "2026-02-01", outcomes[0].CompletedOn)
	assert.Nil(t, outcomes[0].Note)
	assert.Nil(t, outcomes[0].Available)

	require.NotNil(t, outcomes[1].Available)
	assert.False(t, *outcomes[1].Available)
	assert.Equal(t, "public holiday", *outcomes[1].Note)
}

func TestParseOutcomes_JSON(t *testing.T) {
	outcomes, err := parseOutcomes([]byte(`[{"lesson_id":"LES-0003","completed_on":"2026-02-15","note":""}]`))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.NotNil(t, outcomes[0].Note)
	assert.Empty(t, *outcomes[0].Note)
}

func TestParseOutcomes_Rejects(t *testing.T) {
	_, err := parseOutcomes([]byte(`[]`))
	require.Error(t, err)

	_, err = parseOutcomes([]byte(`lesson_id: LES-0001`))
	require.Error(t, err)
}
