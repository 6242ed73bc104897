/*
Package cli provides command-line utilities for the preflight command:
error types, exit-code mapping and signal handling.

Exit Codes:

The preflight commands map run outcomes to process exit codes so CI and
payroll pipelines can gate on the result:

	GREEN or YELLOW  -> 0
	RED              -> 2
	processing error -> 2

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
