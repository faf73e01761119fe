// Package console prints the user-facing status lines of the repackager and
// implements the acknowledgement gate shown before the process exits.
package console
