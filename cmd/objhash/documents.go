package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/objhash/input"
)

const stdinName = "-"

// document is one decoded document and the name it is reported under.
type document struct {
	name  string
	value any
}

// readDocuments decodes every document in the named files. No arguments
// means standard input. Files holding several documents are reported as
// name#1, name#2, and so on.
func (c *commandContext) readDocuments(cmd *cobra.Command, args []string) ([]document, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}

	var docs []document
	for _, arg := range args {
		var (
			values []any
			err    error
		)
		if arg == stdinName {
			values, err = input.DecodeReader(cmd.InOrStdin(), stdinName, c.inputFormat())
		} else {
			values, err = input.DecodeFile(arg, c.inputFormat())
		}
		if err != nil {
			return nil, err
		}

		c.logger.Debug("decoded input", "name", arg, "documents", len(values))
		if len(values) == 0 {
			c.logger.Warn("input holds no documents", "name", arg)
			continue
		}

		for i, v := range values {
			name := arg
			if len(values) > 1 {
				name = fmt.Sprintf("%s#%d", arg, i+1)
			}
			docs = append(docs, document{name: name, value: v})
		}
	}
	return docs, nil
}
