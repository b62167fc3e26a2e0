// Package loader reads delimited catalog files into a model.Table.
//
// Comma- and tab-separated files are supported, optionally compressed with
// gzip (.gz) or zstd (.zst, .zstd). Column names are trimmed of surrounding
// whitespace; no other normalization is applied and no schema is enforced.
//
// Any failure to open or parse the file is reported as a *LoadError that
// carries the file path and the underlying cause.
package loader
