// Package webfetch provides a tool that fetches web pages over HTTP and
// converts their HTML content into Markdown for the model to read.
//
// [New] returns the tool; [Fetcher] exposes the same logic for direct use.
package webfetch
