package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/resqrypt/resqrypt/internal/common"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

var errEmptyPassword = errors.New("password cannot be empty")
var errPasswordMismatch = errors.New("passwords do not match")

// getPassword prints a prompt to w and reads a password from the user's
// terminal without echo. A newline is printed after the read to keep the UI
// tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func getPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errEmptyPassword
	}
	return pw, nil
}

// getPasswordWithConfirm prompts twice and requires both entries to match.
// Used when encrypting, where a typo would make the container unrecoverable.
func getPasswordWithConfirm(w io.Writer) ([]byte, error) {
	pw, err := getPassword(w, "Enter encryption password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := getPassword(w, "Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(confirm)
	if string(pw) != string(confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
