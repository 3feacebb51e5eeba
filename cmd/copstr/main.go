// Package main provides the copstr CLI, a line clipper built on the
// copstr bounded string type.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lpenz/copstr"
)

// Output format constants.
const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
)

var (
	flagSize     int
	flagTruncate bool
	flagOutput   string
)

// Exit codes.
// Commands use these semantically:
//   - exitValidation: unsupported size or output format
//   - exitOverflow: strict mode rejected an oversized line
const (
	exitValidation = 1
	exitOverflow   = 2
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitErr creates an ExitError with the given code and message.
func exitErr(code int, msg string) error {
	return &ExitError{Code: code, Message: msg}
}

// result describes what happened to one input line.
type result struct {
	Input     string `json:"input" yaml:"input"`
	Output    string `json:"output" yaml:"output"`
	Bytes     int    `json:"bytes" yaml:"bytes"`
	Truncated bool   `json:"truncated" yaml:"truncated"`
}

// clipAs clips one line using a buffer of storage type A. In strict mode
// an oversized line is an error; in truncating mode it is clipped at a
// code point boundary.
func clipAs[A any](line string, truncate bool) (result, error) {
	if truncate {
		s := copstr.Truncate[A](line)
		return result{
			Input:     line,
			Output:    s.String(),
			Bytes:     s.Len(),
			Truncated: s.Len() < len(line),
		}, nil
	}
	s, err := copstr.New[A](line)
	if err != nil {
		return result{}, fmt.Errorf("%q: %w", line, err)
	}
	return result{Input: line, Output: s.String(), Bytes: s.Len()}, nil
}

// clipLine dispatches on the requested size. Capacity is a compile-time
// property of the buffer type, so the CLI offers a precompiled set of
// sizes rather than an arbitrary integer.
func clipLine(size int, line string, truncate bool) (result, error) {
	switch size {
	case 8:
		return clipAs[[8]byte](line, truncate)
	case 16:
		return clipAs[[16]byte](line, truncate)
	case 32:
		return clipAs[[32]byte](line, truncate)
	case 64:
		return clipAs[[64]byte](line, truncate)
	case 128:
		return clipAs[[128]byte](line, truncate)
	case 256:
		return clipAs[[256]byte](line, truncate)
	default:
		return result{}, exitErr(exitValidation,
			fmt.Sprintf("unsupported size %d: must be one of 8, 16, 32, 64, 128, 256", size))
	}
}

// readLines returns the inputs: command arguments if present, otherwise
// one input per line of r.
func readLines(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

// writeResults renders the results in the requested format.
func writeResults(w io.Writer, results []result, format string) error {
	switch format {
	case outputText:
		for _, r := range results {
			fmt.Fprintln(w, r.Output)
		}
		return nil
	case outputJSON:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	case outputYAML:
		data, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
		return nil
	default:
		return exitErr(exitValidation,
			fmt.Sprintf("unsupported output format %q: must be text, json, or yaml", format))
	}
}

var rootCmd = &cobra.Command{
	Use:   "copstr [lines...]",
	Short: "Clip text lines to a fixed byte budget",
	Long: strings.TrimSpace(`
copstr clips each input line (arguments, or stdin when no arguments are
given) to a fixed byte budget without ever splitting a multi-byte UTF-8
sequence. By default an oversized line is an error; with --truncate the
part that does not fit is dropped at a code point boundary.
`),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := readLines(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		results := make([]result, 0, len(lines))
		for _, line := range lines {
			res, err := clipLine(flagSize, line, flagTruncate)
			if err != nil {
				var exitError *ExitError
				if errors.As(err, &exitError) {
					return err
				}
				return exitErr(exitOverflow, err.Error())
			}
			results = append(results, res)
		}

		return writeResults(cmd.OutOrStdout(), results, flagOutput)
	},
}

func init() {
	rootCmd.Flags().IntVar(&flagSize, "size", 64, "byte budget (8, 16, 32, 64, 128, or 256)")
	rootCmd.Flags().BoolVar(&flagTruncate, "truncate", false, "clip oversized lines instead of failing")
	rootCmd.Flags().StringVar(&flagOutput, "output", outputText, "output format: text, json, or yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitError *ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.Code)
		}
		os.Exit(1)
	}
}
