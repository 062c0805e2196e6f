package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

func withTmpConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "hashpass")
}

type harness struct {
	dsn  string
	clip []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	withTmpConfig(t)
	return &harness{dsn: filepath.Join(t.TempDir(), "hashpass.db")}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	term := &terminal{
		in:     bufio.NewReader(strings.NewReader(stdin)),
		out:    &out,
		errOut: &errOut,
		clipboard: func(s string) error {
			h.clip = append(h.clip, s)
			return nil
		},
	}
	err := run(context.Background(), term, append([]string{"--db-dsn", h.dsn}, args...))
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, errOut, err := h.run(t, stdin, args...)
	require.NoError(t, err, errOut)
	return out
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "", "version")
	require.Contains(t, out, "hashpass dev")
}

func TestHash_NoProfiles(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run(t, "mk\n", "hash", "site")
	require.ErrorIs(t, err, errNoProfiles)
}

func TestHash_DeterministicAndMemoized(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "", "profile", "create", "P1", "--length", "10", "--type", "letters-digits")

	first := strings.TrimSpace(h.mustRun(t, "MasterPass1\n", "hash", "mail.example"))
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{10}$`), first)

	second := strings.TrimSpace(h.mustRun(t, "MasterPass1\n", "hash", "Mail.Example"))
	require.Equal(t, first, second)

	other := strings.TrimSpace(h.mustRun(t, "MasterPass2\n", "hash", "mail.example"))
	require.NotEqual(t, first, other)

	h.mustRun(t, "", "profile", "edit", "1", "--length", "20")
	out := h.mustRun(t, "", "tag", "show", "mail.example")
	require.Equal(t, "mail.example: 10 letters-digits (stored)\n", out)
	require.Equal(t, first, strings.TrimSpace(h.mustRun(t, "MasterPass1\n", "hash", "mail.example")))

	out = h.mustRun(t, "", "tag", "show", "new.example")
	require.Equal(t, "new.example: 20 letters-digits (profile default)\n", out)
}

func TestHash_FingerprintAndCopy(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "", "profile", "create", "P")

	out, errOut, err := h.run(t, "mk\n", "hash", "--copy", "site")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Regexp(t, `Fingerprint: [A-Za-z0-9]{3}\n`, errOut)
	require.Len(t, h.clip, 1)
	require.Len(t, h.clip[0], 10)
	require.NotContains(t, errOut, h.clip[0])
}

func TestHash_RemembersLastProfile(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "", "profile", "create", "a")
	h.mustRun(t, "", "profile", "create", "b")

	viaFlag := h.mustRun(t, "mk\n", "hash", "--profile", "2", "site")
	raw, err := os.ReadFile(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "hashpass", "hashpass.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(raw), "last_profile: 2")

	require.Equal(t, viaFlag, h.mustRun(t, "mk\n", "hash", "site"))
	require.NotEqual(t, viaFlag, h.mustRun(t, "mk\n", "hash", "--profile", "1", "site"))

	list := h.mustRun(t, "", "profile", "list")
	require.Regexp(t, `\*\s+1\s+a`, list)
}

func TestHash_UnknownProfile(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "", "profile", "create", "a")
	_, _, err := h.run(t, "mk\n", "hash", "--profile", "9", "site")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProfile_Validation(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run(t, "", "profile", "create", "x", "--type", "emoji")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
	_, _, err = h.run(t, "", "profile", "create", "x", "--length", "99")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
	_, _, err = h.run(t, "", "profile", "edit", "abc")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestProfile_DeleteConfirm(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "", "profile", "create", "a")
	h.mustRun(t, "mk\n", "hash", "site")

	_, errOut, err := h.run(t, "n\n", "profile", "delete", "1")
	require.NoError(t, err)
	require.Contains(t, errOut, "aborted")

	out := h.mustRun(t, "y\n", "profile", "delete", "1")
	require.Equal(t, "deleted profile 1\n", out)

	_, _, err = h.run(t, "", "tag", "list", "--profile", "1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTag_SetListDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "", "profile", "create", "a", "--length", "12")

	before := strings.TrimSpace(h.mustRun(t, "mk\n", "hash", "bank"))
	require.Equal(t, "bank: 6 digits\n", h.mustRun(t, "", "tag", "set", "bank", "--length", "6", "--type", "digits"))
	after := strings.TrimSpace(h.mustRun(t, "mk\n", "hash", "bank"))
	require.Regexp(t, `^[0-9]{6}$`, after)
	require.NotEqual(t, before, after)

	h.mustRun(t, "", "tag", "set", "alpha", "--type", "letters")
	list := h.mustRun(t, "", "tag", "list")
	require.Regexp(t, `(?s)alpha\s+12\s+letters.*bank\s+6\s+digits`, list)

	require.Equal(t, "deleted tag \"bank\"\n", h.mustRun(t, "", "tag", "delete", "bank"))
	_, _, err := h.run(t, "", "tag", "delete", "bank")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestParseHelpers(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	for _, bad := range []string{"", "0", "-3", "x"} {
		_, err := parseID(bad)
		require.ErrorIs(t, err, errs.ErrInvalidInput, bad)
	}

	typ, err := parseType("Digits")
	require.NoError(t, err)
	require.Equal(t, model.Digits, typ)
	_, err = parseType("hex")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}
