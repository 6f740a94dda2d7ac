package shell

import "errors"

var (
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrNestedScript      = errors.New("scripts cannot run other scripts")
	ErrScriptMissingEnd  = errors.New("script has no @end line")
	ErrBadUsage          = errors.New("wrong arguments")
)

// Control-flow sentinels returned by command handlers. The command loop
// translates them into loop exits and process exit codes; they are never
// shown to the operator.
var (
	errQuit    = errors.New("quit requested")
	errLogout  = errors.New("logout requested")
	errRestart = errors.New("restart requested")
)
