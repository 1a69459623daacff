// Package yaml loads the site pattern registry from YAML documents.
package yaml

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fwojciec/prodfind"
	"gopkg.in/yaml.v3"
)

//go:embed sites.yaml
var defaultSites []byte

// document is the on-disk layout of a registry file.
type document struct {
	Sites []siteEntry `yaml:"sites"`
}

type siteEntry struct {
	Site         string   `yaml:"site"`
	Patterns     []string `yaml:"patterns"`
	SitemapHost  string   `yaml:"sitemap_host"`
	SitemapPaths []string `yaml:"sitemap_paths"`
}

// DefaultRegistry returns the registry compiled into the binary.
func DefaultRegistry() *prodfind.Registry {
	reg, err := LoadRegistry(bytes.NewReader(defaultSites))
	if err != nil {
		panic(fmt.Sprintf("embedded sites.yaml: %v", err))
	}
	return reg
}

// LoadRegistryFile reads a registry from the YAML file at path.
func LoadRegistryFile(path string) (*prodfind.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sites file: %w", err)
	}
	defer f.Close()
	return LoadRegistry(f)
}

// LoadRegistry parses a registry document from r.
// Returns EINVALID for entries without a site, with an invalid pattern or
// with a sitemap path that is not absolute.
func LoadRegistry(r io.Reader) (*prodfind.Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, prodfind.Errorf(prodfind.EINVALID, "parsing sites YAML: %v", err)
	}

	rules := make([]*prodfind.SiteRules, 0, len(doc.Sites))
	for i, entry := range doc.Sites {
		site := strings.TrimSpace(entry.Site)
		if site == "" {
			return nil, prodfind.Errorf(prodfind.EINVALID, "site entry %d: site required", i)
		}

		sr := &prodfind.SiteRules{
			Site:        prodfind.SiteID(site),
			SitemapHost: strings.TrimSpace(entry.SitemapHost),
		}
		for _, pattern := range entry.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, prodfind.Errorf(prodfind.EINVALID, "site %s: invalid pattern %q: %v", site, pattern, err)
			}
			sr.Patterns = append(sr.Patterns, re)
		}
		for _, p := range entry.SitemapPaths {
			if !strings.HasPrefix(p, "/") {
				return nil, prodfind.Errorf(prodfind.EINVALID, "site %s: sitemap path %q must start with /", site, p)
			}
			sr.SitemapPaths = append(sr.SitemapPaths, p)
		}
		rules = append(rules, sr)
	}

	return prodfind.NewRegistry(rules...), nil
}
