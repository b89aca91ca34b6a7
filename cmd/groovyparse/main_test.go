package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/groovyscript/internal/config"
)

func testEnv(t *testing.T) (*env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &env{
		cfg:    config.Defaults(),
		stdout: &stdout,
		stderr: &stderr,
		colors: newPalette(false),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, &stdout, &stderr
}

func TestRunParse_Formats(t *testing.T) {
	e, stdout, _ := testEnv(t)
	require.NoError(t, e.runParse("build.gradle", "a + b * c", "sexp"))
	assert.Equal(t, "(module (expression_statement (binary_expression a + (binary_expression b * c))))\n", stdout.String())

	stdout.Reset()
	require.NoError(t, e.runParse("build.gradle", "task hello", "tree"))
	assert.Equal(t, "Module\n  Task: hello\n", stdout.String())

	stdout.Reset()
	require.NoError(t, e.runParse("build.gradle", "x()", "dump"))
	assert.Contains(t, stdout.String(), "FunctionCall")

	assert.Error(t, e.runParse("build.gradle", "x()", "xml"))
}

func TestRunParse_Error(t *testing.T) {
	e, stdout, stderr := testEnv(t)
	err := e.runParse("build.gradle", "foo(1, 2", "tree")
	assert.Equal(t, errFailed, err)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "error[build.gradle:1:9]: unclosed \"(\" opened at 1:4\n", stderr.String())
}

func TestRunTokens(t *testing.T) {
	e, stdout, _ := testEnv(t)
	require.NoError(t, e.runTokens("build.gradle", "// hi\nIF x", true))

	out := stdout.String()
	assert.Contains(t, out, "LINE_COMMENT")
	assert.Contains(t, out, `"IF"`)
	assert.Less(t, strings.Index(out, "LINE_COMMENT"), strings.Index(out, `"IF"`))

	stdout.Reset()
	require.NoError(t, e.runTokens("build.gradle", "// hi\nIF x", false))
	assert.NotContains(t, stdout.String(), "LINE_COMMENT")
}

func TestRunTokens_LexError(t *testing.T) {
	e, stdout, stderr := testEnv(t)
	err := e.runTokens("build.gradle", "x = 'abc", false)
	assert.Equal(t, errFailed, err)
	assert.Contains(t, stdout.String(), "IDENT")
	assert.Contains(t, stderr.String(), "error[build.gradle:1:5]")
}

func TestRunLint(t *testing.T) {
	e, stdout, _ := testEnv(t)
	require.NoError(t, e.runLint("build.gradle", "IF (x) { y() }"))
	assert.Contains(t, stdout.String(), "warning[build.gradle:1:1]: keyword 'IF' should be written 'if' (keyword-case)")
	assert.Contains(t, stdout.String(), "build.gradle: 1 warning(s)")

	stdout.Reset()
	require.NoError(t, e.runLint("build.gradle", "if (x) { y() }"))
	assert.Equal(t, "build.gradle: no warnings\n", stdout.String())
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.gradle"), []byte("plugins { id 'java' }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.gradle"), []byte("dependencies {"), 0o644))

	e, stdout, stderr := testEnv(t)
	err := e.runCheck(context.Background(), []string{dir}, false)
	assert.Equal(t, errFailed, err)
	assert.Contains(t, stdout.String(), "checked 2 file(s), 1 error(s)")
	assert.Contains(t, stderr.String(), "bad.gradle:1:15")
}

func TestRunCheck_Resolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.gradle"), []byte("apply from: 'common.gradle'"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.gradle"), []byte("ext.x = 1"), 0o644))

	e, stdout, _ := testEnv(t)
	require.NoError(t, e.runCheck(context.Background(), []string{filepath.Join(dir, "build.gradle")}, true))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "common.gradle"))
	assert.True(t, strings.HasSuffix(lines[1], "build.gradle"))
	assert.Equal(t, "checked 2 file(s), no errors", lines[2])

	assert.Error(t, e.runCheck(context.Background(), []string{"a", "b"}, true))
}

func TestReadByParseProbe(t *testing.T) {
	e, _, _ := testEnv(t)
	s := &replSession{env: e, format: "sexp"}

	lines := []string{"task hello {", "  doLast { }", "}"}
	var prompts []string
	prompt := func(p string) (string, error) {
		prompts = append(prompts, p)
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}

	src, ok := readByParseProbe(prompt, s.complete)
	require.True(t, ok)
	assert.Equal(t, "task hello {\n  doLast { }\n}", src)
	assert.Equal(t, []string{promptMain, promptCont, promptCont}, prompts)

	_, ok = readByParseProbe(prompt, s.complete)
	assert.False(t, ok)
}

func TestReplSession_Eval(t *testing.T) {
	e, stdout, stderr := testEnv(t)
	s := &replSession{env: e, format: "tree"}

	assert.False(t, s.eval(":sexp"))
	assert.Equal(t, "sexp", s.format)

	assert.False(t, s.eval("a = 1\nb()"))
	assert.Equal(t, "(assignment_statement a = 1)\n(function_call b)\n", stdout.String())

	assert.False(t, s.eval(")"))
	assert.Contains(t, stderr.String(), "error[repl:1:1]")

	assert.True(t, s.eval(":quit"))
}

func TestRunDumpConfig(t *testing.T) {
	e, stdout, _ := testEnv(t)
	require.NoError(t, e.runDumpConfig())
	assert.Contains(t, stdout.String(), "[Workspace]")
	assert.Contains(t, stdout.String(), "256")
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, colorEnabled("always", os.Stdout))
	assert.False(t, colorEnabled("never", os.Stdout))
}
