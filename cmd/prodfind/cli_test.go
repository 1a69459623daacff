package main_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/prodfind/cmd/prodfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"discover", "jobs", "serve", "sites"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_Defaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"discover", "https://www.westside.com/"})
	require.NoError(t, err)

	assert.Equal(t, "https://www.westside.com/", cli.Discover.URL)
	assert.Equal(t, 15*time.Second, cli.Timeout)
	assert.Equal(t, 12, cli.Concurrency)
	assert.Equal(t, 3, cli.MaxDepth)
	assert.Equal(t, 2000, cli.MaxVisited)
	assert.Equal(t, 50, cli.Threshold)
	assert.Zero(t, cli.Rate)
	assert.False(t, cli.StrictTLS)
	assert.Equal(t, "warn", cli.LogLevel)
}

func TestCLI_ParsesJobsSubcommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"jobs", "list", "--status", "DONE", "-n", "5"})
	require.NoError(t, err)

	assert.Equal(t, "jobs list", ctx.Command())
	assert.Equal(t, "DONE", cli.Jobs.List.Status)
	assert.Equal(t, 5, cli.Jobs.List.Limit)
}

func TestCLI_RejectsUnknownLogLevel(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--log-level", "loud", "sites"})
	assert.Error(t, err)
}
