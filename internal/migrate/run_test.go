package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_SortedAndComplete(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0001_users",
		"0002_password_history",
		"0003_wellness_checkins",
	}, versions)
}

func TestRun_NilDB(t *testing.T) {
	_, err := Run(context.Background(), nil)
	require.Error(t, err)
}
