package passphrase

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// GetterEnvVar overrides getter selection. A non-empty value names the
// getter to use; an empty value suppresses the implicit default.
const GetterEnvVar = "RIMU_PASSPHRASE_GETTER"

// ImplicitGetter is consulted when neither the flag nor the environment
// selects a getter.
const ImplicitGetter = "sops"

// Source identifies what triggered a getter selection. It appears in
// error messages so a failing getter can be traced back to its trigger.
type Source int

const (
	SourceNone Source = iota
	SourceFlag
	SourceEnv
	SourceImplicit
)

func (s Source) String() string {
	switch s {
	case SourceFlag:
		return "the --getter flag"
	case SourceEnv:
		return "the " + GetterEnvVar + " environment variable"
	case SourceImplicit:
		return "the implicit sops entry in [passphrase]"
	default:
		return "no getter source"
	}
}

// Selection is the outcome of getter selection: which key won and what
// triggered it.
type Selection struct {
	Key    string
	Source Source
}

// Inputs carries everything passphrase resolution needs for one invocation.
type Inputs struct {
	// Direct is a passphrase supplied straight from the environment. It is
	// used only when no getter runs.
	Direct string
	// Explicit is the getter key from the --getter flag, empty when absent.
	Explicit string
	// Override is the getter environment override, nil when the variable
	// is unset. A pointer to the empty string suppresses the implicit
	// default.
	Override *string
	// Getters is the [passphrase] table from the local config.
	Getters map[string]string
}

// SelectGetter decides which getter to run, first matching rule wins:
// the explicit flag key, then the environment override, then the implicit
// sops entry when the table has one. The second return is false when no
// getter should run at all.
//
// Selection never checks whether the flag or override key exists in the
// table. A selected key with no entry is an error the caller reports, not
// a reason to fall through to a lower-priority rule.
func SelectGetter(explicit string, override *string, getters map[string]string) (Selection, bool) {
	if explicit != "" {
		return Selection{Key: explicit, Source: SourceFlag}, true
	}
	if override != nil {
		if *override == "" {
			return Selection{}, false
		}
		return Selection{Key: *override, Source: SourceEnv}, true
	}
	if _, ok := getters[ImplicitGetter]; ok {
		return Selection{Key: ImplicitGetter, Source: SourceImplicit}, true
	}
	return Selection{}, false
}

// Resolve returns the passphrase for this invocation. When selection picks
// a getter, its command runs through the shell and the trimmed output
// becomes the passphrase, replacing any direct value. When no getter is
// selected, the direct value is returned as-is (possibly empty).
//
// Returns ErrGetterNotFound if the selected key has no table entry,
// ErrGetterFailed if the command exits non-zero, and ErrGetterEmptyOutput
// if it produces nothing but whitespace.
func Resolve(ctx context.Context, in Inputs) (string, Selection, error) {
	sel, ok := SelectGetter(in.Explicit, in.Override, in.Getters)
	if !ok {
		return in.Direct, sel, nil
	}

	command, ok := in.Getters[sel.Key]
	if !ok {
		return "", sel, fmt.Errorf("%w: %q has no entry in [passphrase] (selected by %s)", rerrors.ErrGetterNotFound, sel.Key, sel.Source)
	}

	pass, err := run(ctx, command)
	if err != nil {
		return "", sel, fmt.Errorf("getter %q (selected by %s): %w", sel.Key, sel.Source, err)
	}
	return pass, sel, nil
}

// run executes a getter command through the shell so pipes and compound
// commands work. Stdout carries the passphrase and is never logged;
// stderr is safe to surface in errors.
func run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%w: command %q: %v (stderr: %s)", rerrors.ErrGetterFailed, command, err, detail)
		}
		return "", fmt.Errorf("%w: command %q: %v", rerrors.ErrGetterFailed, command, err)
	}

	pass := strings.TrimSpace(stdout.String())
	if pass == "" {
		return "", fmt.Errorf("%w: command %q", rerrors.ErrGetterEmptyOutput, command)
	}
	return pass, nil
}
