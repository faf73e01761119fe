// Package layers holds the fixed table that maps Proteus ARES CAM export
// layer names to the short gerber extensions expected by OSHPark.
package layers
