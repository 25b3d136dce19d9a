// Package http exposes the comparison core over a chi router. It is the
// boundary toward the UI shell: handlers return data and annotation
// metadata only, never presentation strings or colors.
package http
