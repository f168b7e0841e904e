// Package internaldefs holds the metric names and bucket bounds shared by
// the exporter packages.
//
// Both the Prometheus and OTel exporters read their definitions from here,
// so a rename in this package changes every exporter at once.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
