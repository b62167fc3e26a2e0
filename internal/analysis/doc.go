// Package analysis computes the descriptive statistics of a catalog table.
//
// It covers the analysis stages that sit between loading and reporting:
//
//   - ResolveColumns maps semantic roles (type, genre, country, release) to
//     concrete column names using case-folded alias matching.
//   - Frequency counts single-valued and comma-separated multi-valued
//     columns into stable, descending frequency tables.
//   - ExtractYears derives a release year per row from a date-like column and
//     SummarizeYears turns it into a year range and a per-year trend.
//
// All functions are pure: they read the table and return new values.
package analysis
