// Package scaffold writes a starter project file into an exported Gen
// project. It powers the "genexport init" command: the file is rendered from
// an embedded template and checked against the project file schema.
package scaffold
