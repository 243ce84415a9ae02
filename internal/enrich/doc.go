// Package enrich reconciles base track metadata against an external catalog.
//
// A Lookup returns Candidates; Reconcile scores each one against the base
// metadata and keeps the best. Two lookups are provided:
//   - ITunes, backed by the iTunes Search API (default)
//   - MusicBrainz, backed by the MusicBrainz recording search
//
// # Basic Usage
//
//	lookup := enrich.NewITunes(client, enrich.ITunesOptions{})
//	r := enrich.NewReconciler(lookup, 30*time.Second, func(err error) {
//	    log.Println("warning:", err)
//	})
//
//	if e, ok := r.Enrich(ctx, md); ok {
//	    md = md.WithEnrichment(e)
//	}
//
// # Scoring
//
// See Score. Ties keep the earliest candidate.
package enrich
