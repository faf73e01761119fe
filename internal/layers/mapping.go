package layers

import "strings"

const (
	searchTokenPrefixConstant = "CADCAM "
	searchTokenSuffixConstant = ".TXT"
	exportExtensionConstant   = "TXT"
)

// Layer pairs an ARES export layer label with its fabrication extension.
type Layer struct {
	Label     string
	Extension string
}

// SearchToken returns the literal fragment ARES places in entry names exported for the layer.
func (layer Layer) SearchToken() string {
	return searchTokenPrefixConstant + layer.Label + searchTokenSuffixConstant
}

// The inner layer labels carry two spaces, exactly as ARES writes them.
var layerDefinitions = []Layer{
	{Label: "Top Copper", Extension: "gtl"},
	{Label: "Bottom Copper", Extension: "gbl"},
	{Label: "Top Solder Resist", Extension: "gts"},
	{Label: "Bottom Solder Resist", Extension: "gbs"},
	{Label: "Top Silk Screen", Extension: "gto"},
	{Label: "Bottom Silk Screen", Extension: "gbo"},
	{Label: "Inner  1", Extension: "g2l"},
	{Label: "Inner  2", Extension: "g3l"},
	// Mechanical 1 carries the board outline.
	{Label: "Mechanical 1", Extension: "gko"},
	{Label: "Drill", Extension: "xln"},
}

// Definitions returns a copy of the ordered layer table.
func Definitions() []Layer {
	duplicatedDefinitions := make([]Layer, len(layerDefinitions))
	copy(duplicatedDefinitions, layerDefinitions)
	return duplicatedDefinitions
}

// Classification describes how a single archive entry maps onto a layer.
type Classification struct {
	Layer       Layer
	SourceName  string
	RenamedName string
}

// Classify locates the layer whose search token occurs in entryName and computes the renamed entry name.
// The boolean is false when no layer matches and the entry must be left out of the output archive.
func Classify(entryName string) (Classification, bool) {
	for _, layer := range layerDefinitions {
		if !strings.Contains(entryName, layer.SearchToken()) {
			continue
		}

		return Classification{
			Layer:       layer,
			SourceName:  entryName,
			RenamedName: renameEntry(entryName, layer.Extension),
		}, true
	}

	return Classification{}, false
}

// renameEntry swaps a trailing TXT for the extension and keeps any other name as is.
func renameEntry(entryName string, extension string) string {
	if !strings.HasSuffix(entryName, exportExtensionConstant) {
		return entryName
	}
	return strings.TrimSuffix(entryName, exportExtensionConstant) + extension
}
