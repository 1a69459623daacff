package prodfind_test

import (
	"testing"

	"github.com/fwojciec/prodfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts http and https URLs", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, (&prodfind.Job{URL: "https://shop.example.com"}).Validate())
		require.NoError(t, (&prodfind.Job{URL: "http://127.0.0.1:8080/women"}).Validate())
	})

	t.Run("rejects missing URL", func(t *testing.T) {
		t.Parallel()

		err := (&prodfind.Job{}).Validate()

		assert.Equal(t, prodfind.EINVALID, prodfind.ErrorCode(err))
		assert.Equal(t, "job URL required", prodfind.ErrorMessage(err))
	})

	t.Run("rejects unusable start URL", func(t *testing.T) {
		t.Parallel()

		err := (&prodfind.Job{URL: "mailto:sales@example.com"}).Validate()

		assert.Equal(t, prodfind.EINVALID, prodfind.ErrorCode(err))
	})
}

func TestJobStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range []prodfind.JobStatus{prodfind.JobPending, prodfind.JobRunning, prodfind.JobDone, prodfind.JobFailed} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, prodfind.JobStatus("done").Valid())
	assert.False(t, prodfind.JobStatus("").Valid())
}

func TestParseStartURL(t *testing.T) {
	t.Parallel()

	u, err := prodfind.ParseStartURL("  HTTPS://Shop.Example.com?x=1#frag ")

	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/?x=1", u.String())
}
