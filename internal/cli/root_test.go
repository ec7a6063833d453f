package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/calebcase/cubench/internal/bench"
	"github.com/calebcase/cubench/internal/store"
)

// execute runs the command tree with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

// writeConfig writes a YAML configuration into a temporary directory.
func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cubench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	require.Equal(t, "cubench", cmd.Use)

	for _, name := range []string{"invoke", "encode", "decode", "run", "calibrate", "history", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			require.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	require.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	require.Equal(t, "", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "version")
	require.Error(t, err)
	require.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "version")
	require.Error(t, err)
	require.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEncodeDecode(t *testing.T) {
	out, err := execute(t, "encode", "u64_multiply", "multiplicand=42", "multiplier=84")
	require.NoError(t, err)
	require.Equal(t, "83aad4\n", out)

	out, err = execute(t, "decode", "83aad4")
	require.NoError(t, err)
	require.Equal(t, "u64_multiply multiplicand=42 multiplier=84\n", out)

	out, err = execute(t, "--format", "json", "encode", "noop")
	require.NoError(t, err)

	var view encodeView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, encodeView{Instruction: "noop", Hex: "8f"}, view)
}

func TestDecodeErrors(t *testing.T) {
	type TC struct {
		args []string
	}

	tcs := []TC{
		{[]string{"decode", "zz"}},
		{[]string{"decode", "00"}},
		{[]string{"decode", "83aad4aa"}},
		{[]string{"encode", "bogus"}},
		{[]string{"encode", "u64_divide", "dividend=1"}},
	}

	for _, tc := range tcs {
		_, err := execute(t, tc.args...)
		require.Error(t, err, spew.Sdump(tc))
		require.Equal(t, ExitCommandError, GetExitCode(err), spew.Sdump(tc, err))
	}
}

func TestInvokeText(t *testing.T) {
	out, err := execute(t, "invoke", "u64_multiply", "multiplicand=42", "multiplier=84")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "Calculating u64 multiply", lines[0])
	require.Equal(t, "3528", lines[len(lines)-2])
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "payload "), out)
	require.Contains(t, out, "cu_bench_consumed ")
}

func TestInvokeJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "invoke", "--hex", "0x83aad4")
	require.NoError(t, err)

	var view invokeView
	require.NoError(t, json.Unmarshal([]byte(out), &view))

	require.Equal(t, "u64_multiply multiplicand=42 multiplier=84", view.Instruction)
	require.Len(t, view.Measurements, 1)
	require.Equal(t, "3528", view.Measurements[0].Value)
	require.Equal(t, "3528", view.Log[len(view.Log)-1])
	require.NotEmpty(t, view.Payload)
}

func TestInvokeFailures(t *testing.T) {
	type TC struct {
		args []string
		code int
	}

	tcs := []TC{
		{[]string{"invoke", "u64_divide", "dividend=3", "divisor=0"}, ExitFailure},
		{[]string{"invoke", "u64_multiply", "multiplicand=max", "multiplier=2"}, ExitFailure},
		{[]string{"invoke", "--hex", "00"}, ExitCommandError},
		{[]string{"invoke", "--hex", "8f", "noop"}, ExitCommandError},
		{[]string{"invoke"}, ExitCommandError},
	}

	for _, tc := range tcs {
		_, err := execute(t, tc.args...)
		require.Error(t, err, spew.Sdump(tc))
		require.Equal(t, tc.code, GetExitCode(err), spew.Sdump(tc, err))
	}
}

const smallSuite = `name: small
cases:
  - name: multiply
    instruction: u64_multiply
    args: {multiplicand: "42", multiplier: "84"}
    expect: "3528"
  - name: noop
    instruction: noop
`

func TestRunAndHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	prom := filepath.Join(dir, "cubench.prom")
	suite := filepath.Join(dir, "small.yaml")

	require.NoError(t, os.WriteFile(suite, []byte(smallSuite), 0o644))

	cfg := writeConfig(t, "database: "+db+"\nmetrics_file: "+prom+"\nrepeat: 2\n")

	out, err := execute(t, "--config", cfg, "--format", "json", "run", "--suite", suite)
	require.NoError(t, err)

	var report bench.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, "small", report.Suite)
	require.Equal(t, 2, report.Repeat)
	require.Len(t, report.Cases, 2)
	require.Equal(t, "3528", report.Cases[0].Value)
	require.Equal(t, "noop", report.Cases[1].Value)

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(metrics), `cubench_units_count{instruction="u64_multiply"} 2`)

	out, err = execute(t, "--config", cfg, "--format", "json", "history")
	require.NoError(t, err)

	var runs []store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	require.Equal(t, report.ID, runs[0].ID)
	require.Equal(t, 2, runs[0].Cases)

	out, err = execute(t, "--config", cfg, "history", report.ID)
	require.NoError(t, err)
	require.Contains(t, out, "multiply")
	require.Contains(t, out, "3528")
}

func TestRunFailedCase(t *testing.T) {
	suite := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(suite, []byte(`name: bad
cases:
  - name: divide
    instruction: u64_divide
    args: {dividend: "3", divisor: "0"}
`), 0o644))

	out, err := execute(t, "run", "--suite", suite, "--repeat", "1")
	require.Error(t, err)
	require.Equal(t, ExitFailure, GetExitCode(err))
	require.Contains(t, out, "FAIL: ")
	require.Contains(t, out, "1 cases, 1 failed")
}

func TestHistoryWithoutDatabase(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
	require.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCalibrate(t *testing.T) {
	out, err := execute(t, "--format", "json", "calibrate", "--samples", "3")
	require.NoError(t, err)

	var view calibrateView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, 3, view.Samples)

	_, err = execute(t, "calibrate", "--samples", "0")
	require.Error(t, err)
	require.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "cubench version "+Version)
}

func TestGetExitCode(t *testing.T) {
	require.Equal(t, ExitSuccess, GetExitCode(nil))
	require.Equal(t, ExitFailure, GetExitCode(os.ErrNotExist))
	require.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	require.Equal(t, 7, GetExitCode(WrapExitError(7, "wrapped", os.ErrNotExist)))
}
