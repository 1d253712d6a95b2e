// Package intercept implements the ordered network-request interception
// pipeline.
//
// Delegates are registered in two append-only lists (asynchronous request
// delegates, synchronous header delegates). Each network event folds its list
// left to right and applies the first defined action; with no opinions the
// default is passthrough. One delegate's failure never aborts handling of
// the surrounding request.
package intercept
