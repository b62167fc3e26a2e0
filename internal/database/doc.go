// Package database stores analysis history in SQLite.
//
// Every completed analysis run is saved with its full CatalogReport as JSON
// plus a small digest for listings. The compare command reads the two most
// recent runs of a dataset (or chosen runs) back and diffs them.
//
// The database is a single file (catalogscan.db) in the XDG data directory,
// opened through the CGO-free modernc.org/sqlite driver.
package database
