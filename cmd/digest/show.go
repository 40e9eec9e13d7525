package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/digest"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByKey(deps.Ctx, c.Key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
