// Package model defines the value types of the track acquisition pipeline.
//
// # Metadata
//
// TrackMetadata is immutable. Enrichment from a secondary source is merged by
// producing a new value:
//
//	md := model.NewTrackMetadata("Thunder", model.NewArtists("Imagine Dragons"), "Evolve", "2017", cover)
//	full := md.WithEnrichment(model.Enrichment{Genre: "Pop", TrackNumber: 11})
//
// # Paths
//
// OutputPath and Filename derive deterministic, sanitized locations:
//
//	p := model.NewOutputPath("/music", md.Artists, md.Album, md.Year)
//	fmt.Println(p) // /music/Imagine Dragons/Evolve (2017)
//
//	name := model.NewFilename(md.Artists, md.Title, 0).WithExtension("mp3")
//	// Imagine Dragons - Thunder.mp3
//
// # Lifecycle
//
// Download is a value-typed state machine:
//
//	pending → downloading → converting → writing_metadata → completed
//
// with failed reachable from every non-terminal state. Out-of-order calls
// return ErrInvalidStateTransition and leave the value unchanged.
package model
