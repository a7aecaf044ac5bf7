package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/shapegen/shapegen/internal/batch"
	"github.com/shapegen/shapegen/internal/config"
	"github.com/shapegen/shapegen/internal/emit"
	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/formatter"
	"github.com/shapegen/shapegen/internal/logging"
	"github.com/shapegen/shapegen/internal/models"
	"github.com/shapegen/shapegen/internal/parser"
	"github.com/shapegen/shapegen/internal/schema"
	"github.com/shapegen/shapegen/internal/synth"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Dir         string `help:"Process every JSON file in this folder (batch mode)." type:"path"`
	OutDir      string `help:"Output folder for batch mode." default:"generated" type:"path"`
	Schema      string `help:"Path to a JSON Schema file to convert instead of a sample document." type:"path"`
	Output      string `help:"Path to output Go file. If not specified, writes to stdout." short:"o" type:"path"`
	Package     string `help:"Package name for generated code." short:"p" default:"main"`
	RootName    string `help:"Name for the root class." short:"r" default:"RootType"`
	Config      string `help:"Path to a config file. Searched for in parent directories when omitted." type:"path"`
	MaxDepth    int    `help:"Maximum JSON nesting depth before inference fails. Zero uses the configured default."`
	EmptyArrays string `help:"Policy for arrays with no elements." enum:"error,string-list" default:"error"`
	Format      bool   `help:"Format the output code according to Go standards." short:"f" default:"true"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	cliParser := kong.Must(&CLI,
		kong.Name("shapegen"),
		kong.Description("A tool to infer Go type definitions from sample JSON documents"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("shapegen version %s\n", Version)
		return
	}

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	err = run(&Context{Debug: CLI.Debug, Config: cfg})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: shapegen --help\n")
		os.Exit(1)
	}
}

// resolveConfig merges the discovered config file with CLI overrides
func resolveConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Package, CLI.RootName, CLI.MaxDepth)
	if err != nil {
		return nil, err
	}

	if CLI.EmptyArrays != config.EmptyPolicyError {
		cfg.Arrays.EmptyPolicy = CLI.EmptyArrays
	}
	cfg.Formatting.Enabled = CLI.Format
	if CLI.Debug {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	if CLI.Dir != "" {
		return runBatch(ctx)
	}

	class, err := synthesizeInput(ctx)
	if err != nil {
		return err
	}

	code, err := emit.NewGoBackend().Render(class, ctx.Config.Package)
	if err != nil {
		return errors.NewEmitError("failed to render class definitions", err)
	}

	if ctx.Config.Formatting.Enabled {
		code, err = formatter.NewFormatter().Format(code)
		if err != nil {
			return errors.NewFormatError("failed to format Go code", err)
		}
	}

	return writeOutput(code)
}

// synthesizeInput produces the class tree from whichever input mode is active
func synthesizeInput(ctx *Context) (models.ClassSpec, error) {
	if CLI.Schema != "" {
		if CLI.Input != "" {
			return models.ClassSpec{}, errors.NewInputError("cannot specify both --input and --schema", nil)
		}
		sch, err := schema.ParseFile(CLI.Schema)
		if err != nil {
			return models.ClassSpec{}, errors.NewInputError("failed to read JSON Schema", err)
		}
		class, err := schema.NewConverter(sch, ctx.Config.SynthOptions()).Convert(ctx.Config.RootName)
		if err != nil {
			return models.ClassSpec{}, errors.NewInferenceError("failed to convert JSON Schema", err)
		}
		return class, nil
	}

	doc, err := parseInput()
	if err != nil {
		return models.ClassSpec{}, err
	}

	s := synth.NewWithOptions(ctx.Config.SynthOptions())
	class, err := s.Synthesize(doc.Root, ctx.Config.RootName)
	if err != nil {
		return models.ClassSpec{}, errors.NewInferenceError("failed to infer schema from JSON", err)
	}
	return class, nil
}

// runBatch processes a folder of JSON samples
func runBatch(ctx *Context) error {
	cleanup, err := logging.Setup(ctx.Config.Logging)
	if err != nil {
		return errors.NewOutputError("failed to set up logging", err)
	}
	defer func() { _ = cleanup() }()

	runner := batch.NewRunner(ctx.Config)
	result, err := runner.Run(context.Background(), CLI.Dir, CLI.OutDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Generated %d file(s), %d failure(s)\n", len(result.Generated), len(result.Failures))
	for file, ferr := range result.Failures {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", file, errors.UserFriendlyError(ferr))
	}

	if len(result.Generated) == 0 {
		return errors.NewInferenceError("all samples failed", nil)
	}
	return nil
}

// parseInput reads JSON from file or stdin
func parseInput() (models.Document, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes code to file or stdout
func writeOutput(code string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(code), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Generated Go code written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Println(strings.TrimSpace(code))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "Shapegen Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
