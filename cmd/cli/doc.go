// Package cli constructs the cadcam2oshpark command-line interface, wiring the
// Cobra root command, the layered configuration loader, and structured logging
// around the archive selection and repackaging services.
package cli
