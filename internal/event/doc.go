// Package event provides the tournament record type shared by the scraper, the poster
// composer and the notifiers.
//
// Records are plain values extracted in document order. A record has no identifier of its own;
// the (name, dates, level) tuple returned by Key is what de-duplication compares. The package
// also holds the content-shape classifiers used to reinterpret ambiguous text nodes and the
// competition tier tokens used for filtering.
package event
