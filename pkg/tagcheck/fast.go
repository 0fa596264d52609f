//go:build tagunion_fast

package tagcheck

// Enabled reports whether generated accessors check the tag. This build has
// the "tagunion_fast" tag, so the checks are compiled out.
const Enabled = false
