// Package identity resolves the invoking user's permission group from the
// remote user directory.
package identity
