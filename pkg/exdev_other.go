//go:build !unix

package pkg

// Cross-device renames are reported as generic errors elsewhere.
func isEXDEV(err error) bool { return false }
