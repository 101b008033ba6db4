// ABOUTME: Product and build information
// ABOUTME: Version, Commit and BuildTime are set via ldflags during release builds
package version

// Product identity
const (
	Product      = "lohigh"
	Manufacturer = "DJ Sacabambaspis"
)

// Build information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the one-line version banner
func String() string {
	return Product + " " + Version + " (commit " + Commit + ", built " + BuildTime + ")"
}
