// SPDX-License-Identifier: MPL-2.0

package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// errValidationFailed marks a rolled-back replacement. It stays internal:
// callers see it as a failed Outcome, not an error.
var errValidationFailed = errors.New("validation failed")

// replaceAndValidate applies one transactional replacement: substitute
// every literal occurrence of oldSub with newSub, run the validation hook,
// and restore the original content via the inverse substitution if
// validation fails.
//
// The file is re-read from disk immediately before each write rather than
// reusing a snapshot from scan time, so replacements already committed for
// earlier references in the batch are preserved.
func (u *Updater) replaceAndValidate(ctx context.Context, filename, oldSub, newSub string) error {
	if err := replaceInFile(filename, oldSub, newSub); err != nil {
		return err
	}

	if u.validate == nil {
		return nil
	}

	if err := u.validate(ctx); err != nil {
		if rbErr := replaceInFile(filename, newSub, oldSub); rbErr != nil {
			return fmt.Errorf("rolling back %s after failed validation: %w", filename, rbErr)
		}
		return fmt.Errorf("%w: %v", errValidationFailed, err)
	}
	return nil
}

// replaceInFile rewrites every literal occurrence of oldSub in the file
// with newSub, preserving the file's permission bits.
func replaceInFile(filename, oldSub, newSub string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("stat %s: %w", filename, err)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	next := strings.ReplaceAll(string(content), oldSub, newSub)
	if err := os.WriteFile(filename, []byte(next), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}
