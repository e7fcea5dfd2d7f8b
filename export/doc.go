// Package export is a plain-data façade over the client, shaped for
// foreign callers: clients are addressed by opaque integer handles,
// request bodies and headers may arrive base64-encoded, and each fetch
// returns one flat record combining the response with the echoed
// request for cross-language inspection.
package export
