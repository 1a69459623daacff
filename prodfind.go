// Package prodfind discovers product-detail page URLs on e-commerce sites.
// It harvests XML sitemaps first and falls back to a bounded same-origin
// HTML crawl when the sitemaps do not yield enough product pages.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/).
package prodfind
