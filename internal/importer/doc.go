// Package importer drives library import runs against the catalog.
//
// A run checks the operator's permission group, resolves one category per
// imported directory, walks the tree converting frame sequences and movie
// files into media units, and registers each unit as an asset with a version
// carrying an uploaded proxy movie. Catalog failures abort the run;
// transcode and upload failures are recorded per unit and the run continues.
package importer
