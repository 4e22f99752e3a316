package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/htmlmeta"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	res, err := extractInput(deps, c.File)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	if c.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// extractInput extracts the HTML held in path, or in stdin when path is
// empty.
func extractInput(deps *Dependencies, path string) (*htmlmeta.Result, error) {
	input, err := readInput(deps, path)
	if err != nil {
		return nil, err
	}

	res, err := deps.Extractor.Extract(input)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmlmeta.ErrorMessage(err))
		return nil, err
	}
	if !res.Converged {
		fmt.Fprintf(deps.Stderr, "warning: cleaning stopped after %d passes without converging\n", res.Iterations)
	}
	return res, nil
}

func readInput(deps *Dependencies, path string) ([]byte, error) {
	if path == "" {
		if deps.Stdin == nil {
			return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "no input file and no stdin")
		}
		input, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return input, nil
	}

	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return input, nil
}
