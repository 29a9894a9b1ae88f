// Package fetcher retrieves raw calendar documents from the candidate sources.
//
// Each call is a single GET with a browser User-Agent and a bounded timeout. There are no
// retries inside a call: the caller moves on to the next candidate source instead. Sources
// flagged ViaProxy are rewritten through a text-mirroring proxy, a separate strategy used
// only once the direct sources have failed.
package fetcher
