//go:build !tagunion_fast

package tagcheck

// Enabled reports whether generated accessors check the tag. Build with the
// "tagunion_fast" tag to disable the checks.
const Enabled = true
