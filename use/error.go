package use

import "fmt"

func Err(message string) *Error {
	return &Error{message: message}
}

func CmdErr(command, message string) *Error {
	return &Error{message: message, command: command}
}

// Error is a command line usage error.
type Error struct {
	message string
	command string
}

func (e *Error) Error() string {
	m := e.message
	if len(e.command) > 0 {
		m += fmt.Sprintf(" command: %s", e.command)
	}
	return m
}
