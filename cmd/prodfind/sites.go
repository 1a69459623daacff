package main

import (
	"fmt"
	"strings"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	for _, site := range deps.Sites.Sites() {
		rules, _ := deps.Sites.Rules(site)
		fmt.Fprintln(deps.Stdout, site)
		for _, p := range rules.Patterns {
			fmt.Fprintf(deps.Stdout, "  pattern: %s\n", p)
		}
		if rules.SitemapHost != "" {
			fmt.Fprintf(deps.Stdout, "  sitemap host: %s\n", rules.SitemapHost)
		}
		if len(rules.SitemapPaths) > 0 {
			fmt.Fprintf(deps.Stdout, "  sitemap paths: %s\n", strings.Join(rules.SitemapPaths, ", "))
		}
	}
	return nil
}
