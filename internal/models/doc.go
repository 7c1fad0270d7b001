// Package models defines the track shapes and decision values shared by every libsync component.
//
// The package contains three categories of types:
//
// 1. Source records: structs mirroring the JSON each upstream system emits
//   - [MediaItem] : a candidate exported from the local media server, with its historical field aliases
//   - [StationMediaFile] : a file listed by the remote station library API
//
// 2. Canonical shapes consumed by detection, produced only by the boundary adapters
//   - [Candidate] : built by [CandidateFromItem]
//   - [RemoteTrack] : built by [RemoteTrackFromAPI]
//   - [TrackFields] : raw artist/album/title after alias resolution
//
// 3. Results and persistent entities
//   - [UploadDecision] : immutable outcome of a duplicate check
//   - [DetectionStrategy] : which rule produced a decision
//   - [DecisionRecord] : a decision stored in the audit log
//
// Alias resolution happens exactly once, at the boundary; nothing downstream looks at source structs.
package models
