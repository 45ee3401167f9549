// Package projectfile reads the optional genexport.yaml kept at the root of
// an exported project. The file pins export settings for that project and is
// validated against an embedded JSON Schema before use.
package projectfile
