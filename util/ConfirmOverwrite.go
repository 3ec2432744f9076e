package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfirmOverwrite asks a yes/no question and defaults to no.
// An answer on the last line without a trailing newline is accepted.
func ConfirmOverwrite(prompt string, in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprintf(out, "%s (y/N): ", prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && response != "") {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
