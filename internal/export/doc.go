// Package export runs one plugin export end to end: customize the template
// descriptor, consult the regeneration cache, rerun the project generator
// when the cache was rewritten, then hand the generated project to the
// native builder.
package export
