// Package model defines the core data structures used throughout catalogscan.
//
// This package contains the following main types:
//   - Table and Record: the loaded catalog rows with trimmed column names
//   - Role and ResolvedColumns: semantic roles (type, genre, country, release)
//     and the columns that satisfy them
//   - FrequencyTable: value counts ordered by descending count
//   - YearColumn and YearSummary: derived release years and their aggregates
//   - CatalogReport: everything one analysis run produced
//
// Models live in their own package to avoid circular
// dependencies. The loader, analysis, chart, report, pipeline and database
// packages all share these types.
//
// CatalogReport is serializable to JSON for report output and history storage.
package model
