// Package repackage converts a Proteus ARES CADCAM archive into an archive
// whose entry names follow the OSHPark gerber naming convention.
//
// Service drives the workflow: it validates the input name, derives the
// sibling output path, copies every recognized layer entry under its new
// name and drops everything else. The input archive is never modified.
package repackage
