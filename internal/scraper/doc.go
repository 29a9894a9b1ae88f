// Package scraper extracts BWF World Tour tournaments from the candidate calendar sources.
//
// Extraction is a cascade of pattern sets, one per known site layout, ordered from the newest
// component markup down to generic heading/anchor shapes. The first pattern set producing at
// least one record wins; the rest are not tried. Inside a matched block every field (name,
// dates, level, location) resolves through its own ordered selector list, falling back to
// content-shape classifiers when the markup is ambiguous. JSON listings and text-mirror output
// have their own rules.
//
// Fetch and parse failures never escape: FetchEvents always returns an Outcome, carrying either
// events or one diagnostic line per failed attempt.
package scraper
