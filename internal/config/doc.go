// Package config provides configuration structures and utilities for catalogscan.
// It defines the options of an analysis run (inputs, output directory,
// top-N cut, chart size, report format), the optional .catalogscan YAML
// file and the XDG directories used for configuration and history data.
package config
