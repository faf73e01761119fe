// Package source selects the CADCAM archive to repackage.
//
// ArchiveSource abstracts where the path comes from: a path given on the
// command line (StaticSource), a terminal file picker (PickerSource) or a
// numbered listing read from a plain input stream (ListingSource). Every
// implementation reports a cancelled choice as ErrNoSelection.
package source
