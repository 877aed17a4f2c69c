package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/cmd"
	"github.com/km-arc/go-container/framework/container"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CONTAINER_MANIFEST", "")

	var stdout, stderr bytes.Buffer
	root := cmd.NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBindings(t *testing.T) {
	out, _, err := run(t, "bindings", "--tags")
	require.NoError(t, err)

	for _, want := range []string{"Name", "Strategy", "config", "logger", "router", "Mailer", "SmtpMailer", "newsletter", "Total"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "reports")
	assert.Contains(t, out, "CpuReport, MemoryReport")
}

func TestResolve(t *testing.T) {
	out, _, err := run(t, "resolve", "newsletter")
	require.NoError(t, err)
	assert.Contains(t, out, "*app.Newsletter")
	assert.Contains(t, out, "Subject:Weekly digest")

	out, _, err = run(t, "resolve", "Newsletter", "--param", "subject=Release notes")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject:Release notes")

	out, _, err = run(t, "resolve", "SmtpMailer", "--arg", "smtp.example.com", "--arg", "2525")
	require.NoError(t, err)
	assert.Contains(t, out, "Host:smtp.example.com Port:2525")
}

func TestResolve_Errors(t *testing.T) {
	_, _, err := run(t, "resolve", "Nope")
	assert.True(t, container.IsNotFound(err), "%v", err)

	_, _, err = run(t, "resolve", "Newsletter", "--param", "subject")
	assert.ErrorContains(t, err, `invalid --param "subject"`)

	_, _, err = run(t, "resolve", "Newsletter", "--arg", "a", "--arg", "b", "--arg", "c")
	assert.True(t, container.IsInvalidOverrideIndex(err), "%v", err)

	_, _, err = run(t, "resolve")
	assert.Error(t, err)
}

func TestManifestFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  - name: mail\n    concrete: Mailer\n"), 0o600))

	out, _, err := run(t, "--manifest", path, "resolve", "mail")
	require.NoError(t, err)
	assert.Contains(t, out, "*app.SmtpMailer")

	_, _, err = run(t, "--manifest", filepath.Join(t.TempDir(), "nope.yaml"), "bindings")
	assert.ErrorContains(t, err, "manifest")
}

func TestTagged(t *testing.T) {
	out, _, err := run(t, "tagged", "reports")
	require.NoError(t, err)
	assert.Contains(t, out, "*app.CpuReport")
	assert.Contains(t, out, "cpus=")
	assert.Contains(t, out, "*app.MemoryReport")
	assert.Contains(t, out, "heap_alloc=")
}

func TestServe_Disabled(t *testing.T) {
	t.Setenv("INSPECTOR_ENABLED", "false")

	_, stderr, err := run(t, "serve")
	require.NoError(t, err)
	assert.Contains(t, stderr, "inspector disabled")
}
