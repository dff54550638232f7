// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

// fractalmd renders JSON or YAML data into Markdown using rule schemas.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/fractalmd"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/fractalmd"
	_buildTime string
)

// cliOptions describes fractalmd CLI flags and subcommands.
type cliOptions struct {
	Version  versionCommand  `command:"version" description:"Print version information"`
	Render   renderCommand   `command:"render" description:"Render data document to markdown"`
	Schema   schemaCommand   `command:"schema" description:"Print built-in rule schema"`
	Scaffold scaffoldCommand `command:"scaffold" description:"Generate starting rule schema from data document"`
}

// schemaSelectFlags groups rule schema selection flags.
type schemaSelectFlags struct {
	SchemaName string `short:"s" long:"schema" description:"Built-in rule schema" choice:"recipe" default:"recipe"`
}

// dataInputFlags groups data document decoding flags.
type dataInputFlags struct {
	InputFormat string `short:"i" long:"input-format" description:"Data format (default: by file extension, json for stdin)" choice:"json" choice:"yaml"`
}

// renderFlags groups markdown rendering flags.
type renderFlags struct {
	SchemaPath     string `short:"f" long:"schema-file" description:"Path to custom rule schema (.yaml or .json); overrides --schema"`
	Level          int    `short:"L" long:"level" description:"Starting heading level" default:"1"`
	KeepNone       bool   `long:"keep-none" description:"Render null and \"None\" values instead of skipping them"`
	KeepEmpty      bool   `long:"keep-empty" description:"Render empty sequences as []"`
	KeepStructured bool   `long:"keep-structured" description:"Render structured values without children as inline JSON"`
	StripHTML      bool   `long:"strip-html" description:"Remove HTML markup from data values"`
	Verbose        bool   `short:"v" long:"verbose" description:"Log skipped values to stderr"`
}

// renderCommand renders data document with rule schema.
type renderCommand struct {
	runner *cliRunner
	Args   struct {
		Data   string `positional-arg-name:"data" description:"Input data file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	SchemaFlags schemaSelectFlags `group:"Schema Select"`
	InputFlags  dataInputFlags    `group:"Data Input"`
	RenderFlags renderFlags       `group:"Markdown Render"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(renderRequest{
		SchemaName:  command.SchemaFlags.SchemaName,
		SchemaPath:  command.RenderFlags.SchemaPath,
		InputFormat: command.InputFlags.InputFormat,
		DataPath:    command.Args.Data,
		OutputPath:  command.Args.Output,
		Verbose:     command.RenderFlags.Verbose,
		Options: fractalmd.Options{
			Level:               command.RenderFlags.Level,
			KeepNone:            command.RenderFlags.KeepNone,
			KeepEmptySequences:  command.RenderFlags.KeepEmpty,
			KeepNonScalarValues: command.RenderFlags.KeepStructured,
			StripHTML:           command.RenderFlags.StripHTML,
		},
	})
}

// schemaCommand exports built-in rule schema.
type schemaCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output schema file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	SchemaFlags schemaSelectFlags `group:"Schema Select"`
}

// Execute runs schema subcommand.
func (command *schemaCommand) Execute(_ []string) error {
	return command.runner.runSchema(command.SchemaFlags.SchemaName, command.Args.Output)
}

// scaffoldCommand generates rule schema from sample data.
type scaffoldCommand struct {
	runner *cliRunner
	Args   struct {
		Data   string `positional-arg-name:"data" description:"Input data file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output schema file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	InputFlags dataInputFlags `group:"Data Input"`
}

// Execute runs scaffold subcommand.
func (command *scaffoldCommand) Execute(_ []string) error {
	return command.runner.runScaffold(command.InputFlags.InputFormat, command.Args.Data, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

// renderRequest carries render subcommand inputs.
type renderRequest struct {
	SchemaName  string
	SchemaPath  string
	InputFormat string
	DataPath    string
	OutputPath  string
	Options     fractalmd.Options
	Verbose     bool
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "fractalmd"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runRender loads data and schema, renders markdown and writes result to stdout or file.
func (runner *cliRunner) runRender(request renderRequest) error {
	data, err := runner.readDataInput(request.DataPath, request.InputFormat)
	if err != nil {
		return err
	}

	rules, err := loadRules(request.SchemaName, request.SchemaPath)
	if err != nil {
		return err
	}

	request.Options.Logger = runner.newLogger(request.Verbose)
	parts, err := fractalmd.Render(data, rules, request.Options)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	return runner.writeOutput(request.OutputPath, "markdown", []byte(fractalmd.Join(parts)))
}

// runSchema writes selected built-in schema to stdout or file.
func (runner *cliRunner) runSchema(schemaName, outputPath string) error {
	schemaText, err := fractalmd.BuiltinSchema(schemaName)
	if err != nil {
		return fmt.Errorf("load built-in schema %q: %w", schemaName, err)
	}

	return runner.writeOutput(outputPath, "schema", []byte(schemaText))
}

// runScaffold generates starting schema from data and writes it to stdout or file.
func (runner *cliRunner) runScaffold(inputFormat, dataPath, outputPath string) error {
	data, err := runner.readDataInput(dataPath, inputFormat)
	if err != nil {
		return err
	}

	schemaYAML, err := fractalmd.GenerateRulesYAML(data)
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}

	return runner.writeOutput(outputPath, "schema", schemaYAML)
}

// loadRules reads custom schema file or falls back to built-in schema.
func loadRules(schemaName, schemaPath string) (fractalmd.RuleList, error) {
	schemaPath = strings.TrimSpace(schemaPath)
	if schemaPath != "" {
		rules, err := fractalmd.LoadRulesFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("schema file %q: %w", schemaPath, err)
		}

		return rules, nil
	}

	rules, err := fractalmd.BuiltinRules(schemaName)
	if err != nil {
		return nil, fmt.Errorf("load built-in schema %q: %w", schemaName, err)
	}

	return rules, nil
}

// readDataInput reads and decodes data from file path or stdin.
func (runner *cliRunner) readDataInput(path, inputFormat string) (fractalmd.Node, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		data, err := fractalmd.LoadDataFileFormat(path, fractalmd.DataFormat(inputFormat))
		if err != nil {
			return fractalmd.Node{}, fmt.Errorf("data file %q: %w", path, err)
		}

		return data, nil
	}

	raw, err := io.ReadAll(runner.stdin)
	if err != nil {
		return fractalmd.Node{}, fmt.Errorf("read data from stdin: %w", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return fractalmd.Node{}, errors.New("read data from stdin: empty input")
	}

	data, err := fractalmd.DecodeData(raw, fractalmd.DataFormat(inputFormat))
	if err != nil {
		return fractalmd.Node{}, fmt.Errorf("data from stdin: %w", err)
	}

	return data, nil
}

// writeOutput writes content to stdout or file.
func (runner *cliRunner) writeOutput(outputPath, what string, content []byte) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := runner.stdout.Write(content); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, outputPath, err)
	}

	return nil
}

// newLogger builds text logger on stderr; verbose enables debug skip messages.
func (runner *cliRunner) newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(runner.stderr, &slog.HandlerOptions{Level: level}))
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Render.runner = runner
	options.Schema.runner = runner
	options.Scaffold.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"render": strings.TrimSpace(fmt.Sprintf(`
Render JSON or YAML data to markdown with a rule schema.
Reads data from file argument or stdin; writes markdown to file argument or stdout.
Uses built-in schema unless --schema-file is given.

Examples:
> $ %s render brownies.json > brownies.md
> $ cat data.yaml | %s render -i yaml -f rules.yaml -L 2 out.md
`, programName, programName)),
		"schema": strings.TrimSpace(fmt.Sprintf(`
Print built-in rule schema text.
Use it as a starting point for a custom schema file.

Examples:
> $ %s schema > recipe.yaml
> $ %s schema -s recipe schemas/recipe.yaml
`, programName, programName)),
		"scaffold": strings.TrimSpace(fmt.Sprintf(`
Generate a starting rule schema from a sample data document.
Every key found in the data gets one rule; nested mappings and
sequences of mappings become headings with children.

Examples:
> $ %s scaffold sample.json > rules.yaml
> $ cat sample.yaml | %s scaffold -i yaml
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build information to stdout.
func (runner *cliRunner) printVersionInfo() {
	_, _ = fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, runner.programName, Version, Commit, BuildTime)
}
