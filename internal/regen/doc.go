// Package regen decides whether a customized project descriptor has to be
// written again (and the project generator rerun) by comparing it with the
// copy cached from the previous export of the same plugin type.
package regen
