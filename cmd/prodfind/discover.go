package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/prodfind"
	"github.com/fwojciec/prodfind/crawl"
	"github.com/fwojciec/prodfind/fs"
)

type discoverOutput struct {
	URL      string   `json:"url"`
	Products []string `json:"products"`
}

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	products, err := deps.Discoverer.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodfind.ErrorMessage(err))
		return err
	}

	data, err := c.render(products)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := writeResult(c.Output, data); err != nil {
			return fmt.Errorf("writing %s: %w", c.Output, err)
		}
		fmt.Fprintf(deps.Stderr, "Wrote %d product URLs to %s\n", len(products), c.Output)
		return nil
	}

	if len(products) == 0 && !c.JSON {
		fmt.Fprintln(deps.Stderr, "No product URLs found.")
		return nil
	}
	_, err = deps.Stdout.Write(data)
	return err
}

func (c *DiscoverCmd) render(products []string) ([]byte, error) {
	if !c.JSON {
		return []byte(crawl.FormatProducts(products)), nil
	}
	if products == nil {
		products = []string{}
	}
	data, err := json.MarshalIndent(discoverOutput{URL: c.URL, Products: products}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeResult(path string, data []byte) error {
	f := fs.NewResultFile(path)
	if err := f.Save(data); err != nil {
		_ = f.Abort()
		return err
	}
	return f.Commit()
}
