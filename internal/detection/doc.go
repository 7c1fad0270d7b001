// Package detection decides whether a candidate track already exists in the
// remote library.
//
// # Strategy chain
//
// A [Chain] evaluates strategies in fixed confidence order and stops at the
// first match:
//
//  1. [MusicBrainzStrategy] : exact MusicBrainz track id
//  2. [MetadataStrategy] : normalized "artist|album|title" fingerprint plus a duration gate
//  3. [FilePathStrategy] : only when an integration supplies a [PathMatcher]
//  4. no match : upload, strategy none
//
// Each call builds its lookup indices from the snapshot it is given, so a
// check costs O(library size) and has no hidden state.
//
// # ReplayGain
//
// Before a metadata match becomes "skip upload", [ReplayGainConflict] is
// consulted. When the library copy carries loudness tags and the candidate
// carries none, the decision is overridden to upload while still reporting
// the matched remote id.
//
// # Errors
//
// Fingerprint errors from the candidate are returned to the caller and apply
// to that candidate only. Library records that cannot be fingerprinted are
// skipped. Several records sharing one MusicBrainz id are logged and the
// first in snapshot order wins.
package detection
