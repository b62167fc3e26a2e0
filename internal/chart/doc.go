// Package chart renders catalog statistics as static PNG images.
//
// A Renderer draws bar charts for the categorical frequency tables and a
// line chart with point markers for the per-year trend, using gonum/plot.
// RenderAll produces every chart a CatalogReport supports into one
// directory; charts for absent or empty tables are skipped.
package chart
