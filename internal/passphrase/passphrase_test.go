package passphrase

import (
	"context"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

func strptr(s string) *string {
	return &s
}

func TestSelectGetterExplicitWins(t *testing.T) {
	getters := map[string]string{
		"sops":  "echo a",
		"linux": "echo b",
		"macos": "echo c",
	}

	sel, ok := SelectGetter("linux", strptr("macos"), getters)
	if !ok {
		t.Fatal("Expected a selection")
	}
	if sel.Key != "linux" || sel.Source != SourceFlag {
		t.Errorf("Expected linux via flag, got %q via %v", sel.Key, sel.Source)
	}
}

func TestSelectGetterEnvOverride(t *testing.T) {
	getters := map[string]string{"sops": "echo a", "macos": "echo c"}

	sel, ok := SelectGetter("", strptr("macos"), getters)
	if !ok {
		t.Fatal("Expected a selection")
	}
	if sel.Key != "macos" || sel.Source != SourceEnv {
		t.Errorf("Expected macos via env, got %q via %v", sel.Key, sel.Source)
	}
}

func TestSelectGetterEmptyOverrideSuppresses(t *testing.T) {
	getters := map[string]string{"sops": "echo a"}

	if _, ok := SelectGetter("", strptr(""), getters); ok {
		t.Error("Expected empty override to suppress the implicit default")
	}
}

func TestSelectGetterImplicitSops(t *testing.T) {
	getters := map[string]string{"sops": "echo a"}

	sel, ok := SelectGetter("", nil, getters)
	if !ok {
		t.Fatal("Expected a selection")
	}
	if sel.Key != "sops" || sel.Source != SourceImplicit {
		t.Errorf("Expected sops via implicit rule, got %q via %v", sel.Key, sel.Source)
	}
}

func TestSelectGetterNothingConfigured(t *testing.T) {
	if _, ok := SelectGetter("", nil, map[string]string{"other": "echo x"}); ok {
		t.Error("Expected no selection without flag, override, or sops entry")
	}
}

func TestResolveRunsGetter(t *testing.T) {
	in := Inputs{
		Explicit: "greet",
		Getters:  map[string]string{"greet": "echo '  secret-word  '"},
	}

	pass, sel, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pass != "secret-word" {
		t.Errorf("Expected trimmed output %q, got %q", "secret-word", pass)
	}
	if sel.Key != "greet" {
		t.Errorf("Expected selection greet, got %q", sel.Key)
	}
}

func TestResolveSupportsShellPipelines(t *testing.T) {
	in := Inputs{
		Explicit: "pipe",
		Getters:  map[string]string{"pipe": `printf 'first\nsecond\n' | tail -n 1`},
	}

	pass, _, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pass != "second" {
		t.Errorf("Expected %q, got %q", "second", pass)
	}
}

func TestResolveDirectWhenNoGetter(t *testing.T) {
	in := Inputs{Direct: "direct-pass"}

	pass, sel, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pass != "direct-pass" {
		t.Errorf("Expected direct passphrase, got %q", pass)
	}
	if sel.Source != SourceNone {
		t.Errorf("Expected SourceNone, got %v", sel.Source)
	}
}

func TestResolveGetterOutputReplacesDirect(t *testing.T) {
	in := Inputs{
		Direct:  "direct-pass",
		Getters: map[string]string{"sops": "echo from-getter"},
	}

	pass, _, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pass != "from-getter" {
		t.Errorf("Expected getter output to win, got %q", pass)
	}
}

func TestResolveSuppressionFallsBackToDirect(t *testing.T) {
	in := Inputs{
		Direct:   "direct-pass",
		Override: strptr(""),
		Getters:  map[string]string{"sops": "echo from-getter"},
	}

	pass, sel, err := Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pass != "direct-pass" {
		t.Errorf("Expected sops to be suppressed, got %q", pass)
	}
	if sel.Source != SourceNone {
		t.Errorf("Expected SourceNone, got %v", sel.Source)
	}
}

func TestResolveUnknownKeyFails(t *testing.T) {
	in := Inputs{
		Explicit: "missing",
		Getters:  map[string]string{"sops": "echo a"},
	}

	_, _, err := Resolve(context.Background(), in)
	if !errors.Is(err, rerrors.ErrGetterNotFound) {
		t.Fatalf("Expected ErrGetterNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing") || !strings.Contains(err.Error(), "--getter") {
		t.Errorf("Expected the key and its trigger in the message, got %q", err.Error())
	}
}

func TestResolveCommandFailure(t *testing.T) {
	in := Inputs{
		Explicit: "bad",
		Getters:  map[string]string{"bad": "echo broken >&2; exit 3"},
	}

	_, _, err := Resolve(context.Background(), in)
	if !errors.Is(err, rerrors.ErrGetterFailed) {
		t.Fatalf("Expected ErrGetterFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("Expected stderr in the message, got %q", err.Error())
	}
}

func TestResolveEmptyOutputFails(t *testing.T) {
	in := Inputs{
		Explicit: "quiet",
		Getters:  map[string]string{"quiet": `printf '   \n'`},
	}

	_, _, err := Resolve(context.Background(), in)
	if !errors.Is(err, rerrors.ErrGetterEmptyOutput) {
		t.Fatalf("Expected ErrGetterEmptyOutput, got %v", err)
	}
}
