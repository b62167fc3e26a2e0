// Package main provides the entry point for the catalogscan CLI.
//
// catalogscan analyzes delimited catalog exports of a streaming service
// (titles with a type, genres, production countries and a release date),
// prints the most frequent values and renders bar and line charts.
//
// Usage:
//
//	catalogscan analyze ["Netflix Dataset_1.csv"]
//	catalogscan compare titles
//
// See --help for all available options.
package main

// main is the entry point for catalogscan.
func main() {
	Execute()
}
