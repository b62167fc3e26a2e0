// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the console summary (type, genre, country, year range)
//   - JSONWriter: structured JSON with the full, untruncated tables
//   - MarkdownWriter: tables, a mermaid pie chart and links to chart images
//
// Every writer also renders a Comparison between two stored runs.
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
