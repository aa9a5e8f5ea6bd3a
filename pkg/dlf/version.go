// Package dlf holds build information shared by the dlf binaries.
package dlf

// Version is the release of the dlf tooling.
const Version = "0.4.0"
