// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - rayid: tags every request with a Ray ID, stored in locals and echoed in
//     the X-Ray-ID response header for tracing.
//   - auth: API key validation with an allow-list of public path prefixes
//     (the OAuth callback and swagger).
//   - identity: reads the account id asserted by the fronting auth layer and
//     stores it in locals for the gallery handlers.
//
// Register them in that order, ahead of the features.
package middleware
