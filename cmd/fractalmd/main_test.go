// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var fixtureDataPath = filepath.Join("..", "..", "testdata", "recipe.fixture.json")

func TestRunRenderWritesMarkdownToStdout(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", fixtureDataPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	want, err := os.ReadFile(filepath.Join("..", "..", "testdata", "recipe.golden.md"))
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}

	if diff := cmp.Diff(string(want), stdout.String()); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}

	if stderr.Len() != 0 {
		t.Fatalf("stderr should be empty, got: %s", stderr.String())
	}
}

func TestRunRenderWritesMarkdownToOutputFile(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "brownies.md")
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "-L", "2", fixtureDataPath, outPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty when output path is provided, got: %s", stdout.String())
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read out file: %v", err)
	}

	if !strings.Contains(string(content), "## Dark Matter Brownies\n") {
		t.Fatalf("output file does not contain level two title: %s", string(content))
	}

	if !strings.Contains(string(content), "### ingredients\n") {
		t.Fatalf("output file does not contain level three section: %s", string(content))
	}
}

func TestRunRenderFromStdinWithSchemaFile(t *testing.T) {
	t.Parallel()

	schemaPath := filepath.Join(t.TempDir(), "rules.yaml")
	schema := "- key: name\n  header: true\n- key: items\n  children:\n    - islist: true\n    - key: label\n"
	if err := os.WriteFile(schemaPath, []byte(schema), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	stdin := strings.NewReader("name: Groceries\nitems:\n  - label: milk\n  - label: eggs\n")
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"render", "-i", "yaml", "-f", schemaPath}, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	want := "# Groceries\n- milk \n- eggs \n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunRenderInputFormatOverridesExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "groceries.txt")
	if err := os.WriteFile(dataPath, []byte("name: Groceries\n"), 0o600); err != nil {
		t.Fatalf("write data: %v", err)
	}

	schemaPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(schemaPath, []byte("- key: name\n  header: true\n"), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "-f", schemaPath, dataPath}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run exit code = %d, want 1 for yaml decoded as json", code)
	}

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"render", "-i", "yaml", "-f", schemaPath, dataPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if stdout.String() != "# Groceries\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunRenderOptionFlags(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--strip-html", fixtureDataPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "Fudgy brownies with dark chocolate.") {
		t.Fatalf("markup should be stripped: %s", stdout.String())
	}

	schemaPath := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(schemaPath, []byte(`[{"key": "m"}, {"key": "e"}, {"key": "n"}]`), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	stdin := strings.NewReader(`{"m": {"a": 1}, "e": [], "n": null}`)
	stdout.Reset()
	stderr.Reset()
	code = runWithIO([]string{"render", "--keep-structured", "--keep-empty", "-f", schemaPath}, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if stdout.String() != "{\"a\":1}\n[]\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}

	stdin = strings.NewReader(`{"n": null}`)
	stdout.Reset()
	stderr.Reset()
	code = runWithIO([]string{"render", "--keep-none", "-f", schemaPath}, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stderr.String(), "rule has no applicable formatting") {
		t.Fatalf("expected diagnostic on stderr, got: %s", stderr.String())
	}
}

func TestRunRenderVerboseLogsSkippedValues(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "-v", fixtureDataPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stderr.String(), "skip empty value") || !strings.Contains(stderr.String(), "key=expand") {
		t.Fatalf("expected skip log for expand, got: %s", stderr.String())
	}
}

func TestRunSchemaWritesBuiltinSchema(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"schema"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "- key: ingredients") {
		t.Fatalf("schema output missing ingredients rule: %s", stdout.String())
	}

	outPath := filepath.Join(t.TempDir(), "recipe.yaml")
	stdout.Reset()
	code = run([]string{"schema", "-s", "recipe", outPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read out file: %v", err)
	}

	if !strings.Contains(string(content), "- key: nutrition") {
		t.Fatalf("schema file missing nutrition rule: %s", string(content))
	}
}

func TestRunScaffoldFromStdin(t *testing.T) {
	t.Parallel()

	stdin := strings.NewReader(`{"title": "Brownies", "steps": {"bake": "25 minutes"}}`)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"scaffold"}, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	for _, want := range []string{"- key: title\n", "key: steps\n", "# steps.bake\n"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("scaffold output missing %q: %s", want, stdout.String())
		}
	}
}

func TestRunScaffoldRejectsScalarRoot(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"scaffold"}, strings.NewReader(`"text"`), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run exit code = %d, want 1", code)
	}

	if !strings.Contains(stderr.String(), "generate schema") {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "version:  "+Version) {
		t.Fatalf("version output missing version line: %s", stdout.String())
	}
}

func TestRunHelpPrintsExamples(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"render", "--help"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "Examples:") {
		t.Fatalf("help output missing examples: %s", stdout.String())
	}
}

func TestRunFlagErrorsExitWithTwo(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"render", "--unknown-flag", fixtureDataPath},
		{"render", "-s", "cocktail", fixtureDataPath},
		{"render", "-i", "toml", fixtureDataPath},
		{"render", "-L", "two", fixtureDataPath},
		{},
	}

	for _, args := range cases {
		var stdout bytes.Buffer
		var stderr bytes.Buffer
		code := run(args, &stdout, &stderr)
		if code != 2 {
			t.Fatalf("run(%q) exit code = %d, want 2", args, code)
		}

		if stderr.Len() == 0 {
			t.Fatalf("run(%q) stderr is empty", args)
		}
	}
}

func TestRunRuntimeErrorsExitWithOne(t *testing.T) {
	t.Parallel()

	brokenSchema := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(brokenSchema, []byte("key: title\n"), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	cyclicSchema := filepath.Join(t.TempDir(), "cyclic.yaml")
	if err := os.WriteFile(cyclicSchema, []byte("- &r\n  key: a\n  children:\n    - *r\n"), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	cases := []struct {
		args   []string
		stdin  string
		stderr string
	}{
		{args: []string{"render", filepath.Join(t.TempDir(), "missing.json")}, stderr: "read data file"},
		{args: []string{"render"}, stdin: "  \n", stderr: "empty input"},
		{args: []string{"render"}, stdin: `{"a": `, stderr: "data from stdin"},
		{args: []string{"render", "-f", filepath.Join(t.TempDir(), "missing.yaml"), fixtureDataPath}, stderr: "read schema file"},
		{args: []string{"render", "-f", brokenSchema, fixtureDataPath}, stderr: "schema root must be a sequence"},
		{args: []string{"render", "-i", "yaml"}, stdin: "a: &x\n  b: *x\n", stderr: "alias cycle"},
		{args: []string{"render", "-f", cyclicSchema, fixtureDataPath}, stderr: "alias cycle"},
	}

	for _, tc := range cases {
		var stdout bytes.Buffer
		var stderr bytes.Buffer
		code := runWithIO(tc.args, strings.NewReader(tc.stdin), &stdout, &stderr)
		if code != 1 {
			t.Fatalf("run(%q) exit code = %d, want 1; stderr: %s", tc.args, code, stderr.String())
		}

		if !strings.Contains(stderr.String(), tc.stderr) {
			t.Fatalf("run(%q) stderr = %q, want substring %q", tc.args, stderr.String(), tc.stderr)
		}
	}
}
