package main

import (
	"fmt"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/etree"
)

// Run executes the annotate command.
func (c *AnnotateCmd) Run(deps *Dependencies) error {
	res, err := extractInput(deps, c.File)
	if err != nil {
		return err
	}

	doc, err := etree.Annotate(res)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmlmeta.ErrorMessage(err))
		return err
	}

	if _, err := doc.WriteTo(deps.Stdout); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
