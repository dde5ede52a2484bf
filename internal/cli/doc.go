// Package cli implements the resourcelight command-line interface.
//
// # Command Structure
//
//	resourcelight                   - Live dashboard (or headless lines)
//	resourcelight config init       - Create a config file
//	resourcelight config show       - Print the effective config
//	resourcelight config validate   - Check the config for problems
//	resourcelight version           - Print build information
//
// # Startup
//
// The root command wires the pieces together in order:
//
//  1. Find and load the config, apply flag overrides, validate
//  2. Build the log switch (the file is opened lazily)
//  3. Build the gopsutil source and the scheduler, start its loop
//  4. Watch the config file for hot reload
//  5. Run the Bubble Tea dashboard, or print headless lines when stdout
//     is not a terminal or --no-ui is set
//
// Quitting cancels one shared context, so the scheduler loop and the UI
// stop together. Configuration errors are returned before anything is
// drawn.
//
// # Flag Handling
//
// Global flags (--config, --interval, --history, --log, --debug, --no-ui,
// --color) are persistent on the root command. A flag only overrides the
// config file when it was set explicitly.
package cli
