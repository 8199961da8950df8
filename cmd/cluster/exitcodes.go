package main

// Exit codes, one per failure stage so scripts can branch on them
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Missing or invalid login configuration
	ExitConnectError = 3 // SSH connection or authentication failure
	ExitExecError    = 4 // Remote command failed or timed out
	ExitParseError   = 5 // Remote output could not be parsed
)
