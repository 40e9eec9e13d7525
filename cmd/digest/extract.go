package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/digest"
)

// Run extracts each URL in order. A failed item is reported and the rest
// still run.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	var failed int
	for _, u := range c.URLs {
		err := c.extract(deps, u)
		if err == nil {
			continue
		}
		if deps.Ctx.Err() != nil {
			return deps.Ctx.Err()
		}
		failed++
		fmt.Fprintf(deps.Stderr, "error: %s: %s\n", u, describe(err))
		if deps.Logger != nil {
			deps.Logger.Debug("extract failed", "url", u, "code", digest.ErrorCode(err), "err", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(c.URLs))
	}
	return nil
}

func (c *ExtractCmd) extract(deps *Dependencies, u string) error {
	req, err := digest.NewExtractionRequest(u, digest.SourceKind(c.Kind))
	if err != nil {
		return err
	}
	rec, err := deps.Runner.Run(deps.Ctx, req)
	if err != nil {
		return err
	}
	return c.print(deps, rec)
}

func (c *ExtractCmd) print(deps *Dependencies, rec *digest.NormalizedRecord) error {
	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(deps.Stdout, "== %s (%s) ==\n", rec.Key, rec.SourceURL)
	switch {
	case rec.Summary != "":
		fmt.Fprintln(deps.Stdout, rec.Summary)
	case rec.Body != "":
		fmt.Fprintln(deps.Stdout, rec.Body)
	default:
		fmt.Fprintln(deps.Stdout, rec.Title)
	}
	return nil
}

// describe returns the application message for coded errors and the full
// chain otherwise.
func describe(err error) string {
	if digest.ErrorCode(err) == digest.EINTERNAL {
		return err.Error()
	}
	return fmt.Sprintf("%s (%s)", digest.ErrorMessage(err), digest.ErrorCode(err))
}
