package main

import (
	"fmt"

	"github.com/fwojciec/digest"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := digest.RecordFilter{Limit: c.Limit}
	if c.Kind != "" {
		kind := digest.SourceKind(c.Kind)
		if !kind.Valid() {
			return digest.Errorf(digest.EINVALID, "unknown kind %q", c.Kind)
		}
		filter.Kind = &kind
	}

	recs, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'digest extract --db' to store one.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.ExtractedAt.Format("2006-01-02 15:04"), r.Kind, r.Key, r.Title)
	}
	return nil
}
