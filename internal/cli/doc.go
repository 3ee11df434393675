// Package cli turns command-line arguments into an app.Config. Usage
// problems come back as *ExitError carrying the process exit code; asking
// for help or giving no graph path prints usage and asks the caller to exit
// cleanly.
package cli
