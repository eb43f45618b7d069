package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstrumentRejectsBadInputs(t *testing.T) {
	require.Error(t, Instrument("verbose", "text"))
	require.Error(t, Instrument("info", "yaml"))
	require.NoError(t, Instrument("debug", "json"))
	require.NoError(t, Instrument("warn", "TEXT"))
}
