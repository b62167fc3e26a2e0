// Package pipeline runs the analysis of a catalog dataset as ordered steps.
//
// A dataset goes through loading, column resolution, year extraction,
// frequency aggregation, the console summary and chart rendering. Each stage
// is a Step that receives the CatalogReport and adds its results to it.
// Steps run strictly one after another; cancellation is checked between steps.
//
// BatchProcessor analyzes several datasets concurrently with one fresh
// pipeline per dataset, bounded by errgroup.SetLimit.
package pipeline
