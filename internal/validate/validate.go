// SPDX-License-Identifier: MPL-2.0

// Package validate builds the post-replace validation hook from a shell
// command string. The command runs in the embedded mvdan/sh interpreter,
// so a test command behaves the same on every platform and no host shell
// is required.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/urlup-dev/urlup/pkg/updater"
)

// Command parses a shell command and returns it as a validation hook.
// The command inherits the current environment and working directory and
// writes to the given streams. A non-zero exit status is a validation
// failure.
func Command(command string, stdout, stderr io.Writer) (updater.ValidateFunc, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "test")
	if err != nil {
		return nil, fmt.Errorf("parsing test command: %w", err)
	}

	return func(ctx context.Context) error {
		// A fresh runner per invocation: runners carry shell state across
		// Run calls.
		runner, err := interp.New(
			interp.Env(expand.ListEnviron(os.Environ()...)),
			interp.StdIO(nil, stdout, stderr),
		)
		if err != nil {
			return fmt.Errorf("creating interpreter: %w", err)
		}

		if err := runner.Run(ctx, prog); err != nil {
			var status interp.ExitStatus
			if errors.As(err, &status) {
				return fmt.Errorf("test command exited with status %d", int(status))
			}
			return fmt.Errorf("running test command: %w", err)
		}
		return nil
	}, nil
}
