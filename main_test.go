package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapegen/shapegen/internal/config"
	"github.com/shapegen/shapegen/internal/errors"
)

// resetCLI restores the global CLI struct after a test mutates it.
func resetCLI(t *testing.T) {
	t.Helper()
	saved := CLI
	t.Cleanup(func() { CLI = saved })

	CLI.Input = ""
	CLI.Dir = ""
	CLI.OutDir = "generated"
	CLI.Schema = ""
	CLI.Output = ""
	CLI.Package = "main"
	CLI.RootName = "RootType"
	CLI.Config = ""
	CLI.MaxDepth = 0
	CLI.EmptyArrays = "error"
	CLI.Format = true
	CLI.Debug = false
	CLI.Interactive = false
}

func testContext() *Context {
	return &Context{Config: config.NewConfig()}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_FileToFile(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeTempFile(t, "input.json", `{
		"zebra": "stripes",
		"apple": 1,
		"nested": {"leaf": true}
	}`)
	CLI.Output = filepath.Join(t.TempDir(), "out.go")

	require.NoError(t, run(testContext()))

	code, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	output := string(code)

	assert.Contains(t, output, "package main")
	assert.Contains(t, output, "type RootType struct")
	assert.Contains(t, output, "type RootTypeNested struct")
	// Declaration order follows the document, not alphabetical order.
	assert.Less(t, strings.Index(output, "Zebra"), strings.Index(output, "Apple"))
}

func TestRun_CustomPackageAndRootName(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeTempFile(t, "input.json", `{"id": 7}`)
	CLI.Output = filepath.Join(t.TempDir(), "out.go")

	ctx := testContext()
	ctx.Config.Package = "models"
	ctx.Config.RootName = "ApiResponse"

	require.NoError(t, run(ctx))

	code, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package models")
	assert.Contains(t, string(code), "type ApiResponse struct")
}

func TestRun_SchemaInput(t *testing.T) {
	resetCLI(t)
	CLI.Schema = writeTempFile(t, "schema.json", `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"count": {"type": "integer"}
		}
	}`)
	CLI.Output = filepath.Join(t.TempDir(), "out.go")

	require.NoError(t, run(testContext()))

	code, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(code), "type RootType struct")
	assert.Contains(t, string(code), "Count int64")
}

func TestRun_SchemaAndInputConflict(t *testing.T) {
	resetCLI(t)
	CLI.Schema = "schema.json"
	CLI.Input = "input.json"

	err := run(testContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot specify both")
}

func TestRun_InvalidJSON(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeTempFile(t, "input.json", `{not json}`)

	err := run(testContext())
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)
}

func TestRun_EmptyArrayPolicy(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeTempFile(t, "input.json", `{"tags": []}`)
	CLI.Output = filepath.Join(t.TempDir(), "out.go")

	err := run(testContext())
	assert.ErrorIs(t, err, errors.ErrEmptyArray)

	ctx := testContext()
	ctx.Config.Arrays.EmptyPolicy = config.EmptyPolicyStringList
	require.NoError(t, run(ctx))

	code, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Contains(t, string(code), "Tags []string")
}

func TestRun_BatchMode(t *testing.T) {
	resetCLI(t)
	inDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "invoice.json"), []byte(`{"total": 12.5}`), 0644))
	CLI.Dir = inDir
	CLI.OutDir = t.TempDir()

	require.NoError(t, run(testContext()))

	code, err := os.ReadFile(filepath.Join(CLI.OutDir, "invoice.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "type Invoice struct")
	assert.Contains(t, string(code), "Total float64")
}

func TestRun_BatchAllFailed(t *testing.T) {
	resetCLI(t)
	inDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "bad.json"), []byte(`[1, 2]`), 0644))
	CLI.Dir = inDir
	CLI.OutDir = t.TempDir()

	err := run(testContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all samples failed")
}

func TestParseInput_FromFile(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeTempFile(t, "input.json", `{"ok": true}`)

	doc, err := parseInput()
	require.NoError(t, err)
	require.Len(t, doc.Root.Members, 1)
	assert.Equal(t, "ok", doc.Root.Members[0].Key)
}

func TestParseInput_FromStdinPipe(t *testing.T) {
	resetCLI(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	savedStdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = savedStdin })

	_, err = w.WriteString(`{"piped": 1}`)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	doc, err := parseInput()
	require.NoError(t, err)
	require.Len(t, doc.Root.Members, 1)
	assert.Equal(t, "piped", doc.Root.Members[0].Key)
}

func TestParseInput_EmptyStdin(t *testing.T) {
	resetCLI(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	savedStdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = savedStdin })
	require.NoError(t, w.Close())

	_, err = parseInput()
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestParseInput_MissingFile(t *testing.T) {
	resetCLI(t)
	CLI.Input = filepath.Join(t.TempDir(), "absent.json")

	_, err := parseInput()
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestWriteOutput_ToFile(t *testing.T) {
	resetCLI(t)
	CLI.Output = filepath.Join(t.TempDir(), "out.go")

	require.NoError(t, writeOutput("package main\n"))

	code, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(code))
}

func TestWriteOutput_BadPath(t *testing.T) {
	resetCLI(t)
	CLI.Output = filepath.Join(t.TempDir(), "missing", "dir", "out.go")

	err := writeOutput("package main\n")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeOutput, appErr.Type)
}

func TestResolveConfig_CLIOverrides(t *testing.T) {
	resetCLI(t)
	CLI.Config = writeTempFile(t, "shapegen.yml", "")
	CLI.Package = "custom"
	CLI.RootName = "Widget"
	CLI.MaxDepth = 12
	CLI.EmptyArrays = "string-list"
	CLI.Format = false
	CLI.Debug = true

	cfg, err := resolveConfig()
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Package)
	assert.Equal(t, "Widget", cfg.RootName)
	assert.Equal(t, 12, cfg.Limits.MaxDepth)
	assert.Equal(t, config.EmptyPolicyStringList, cfg.Arrays.EmptyPolicy)
	assert.False(t, cfg.Formatting.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestResolveConfig_FromFile(t *testing.T) {
	resetCLI(t)
	CLI.Config = writeTempFile(t, "shapegen.yml", "package: fromfile\nroot_name: Sample\n")

	cfg, err := resolveConfig()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Package)
	assert.Equal(t, "Sample", cfg.RootName)
}
