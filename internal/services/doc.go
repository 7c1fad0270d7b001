// Package services talks to the remote station library over HTTP.
//
// # Library Interface
//
// [LibraryService] is the read-only view the duplicate checker needs: the
// current file listing and a health probe. [StationService] implements it for
// an AzuraCast-style station API.
//
// # Authentication
//
// The station API key is sent as a bearer token through an [oauth2.Transport]
// backed by a static token source. Keys do not expire, so no refresh flow is
// involved.
//
// # Rate Limiting
//
// Every request waits on a [rate.Limiter] built from library.rate_limit
// (requests per second). A non-positive rate disables limiting.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : no API key configured
//   - [shared.ErrAPIRequest] : non-2xx response or transport failure
//   - [shared.ErrServiceUnavailable] : 502/503/504 from the station
//   - [shared.ErrTimeout] : request deadline exceeded
//
// # API Mappings
//
// Station files decode into [models.StationMediaFile] and are mapped to
// [models.RemoteTrack] by [models.RemoteTrackFromAPI], which resolves the
// MusicBrainz id and ReplayGain aliases.
package services
