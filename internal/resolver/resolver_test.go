// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nuztalgia/botstrap/internal/logger"
	"github.com/nuztalgia/botstrap/internal/resolver"
	"github.com/nuztalgia/botstrap/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSession is a terminal.Session fed with canned answers. Each
// prompt consumes the next queued answer; running out of answers fails the
// test, which catches unexpected extra prompts.
type scriptedSession struct {
	t        *testing.T
	hidden   []string
	lines    []string
	confirms []bool

	statuses []statusCall
	exits    []exitCall
}

type statusCall struct {
	message string
	isError bool
}

type exitCall struct {
	message string
	isError bool
}

func (s *scriptedSession) PromptHidden(message string) (string, error) {
	require.NotEmpty(s.t, s.hidden, "unexpected hidden prompt: %q", message)
	answer := s.hidden[0]
	s.hidden = s.hidden[1:]
	return answer, nil
}

func (s *scriptedSession) PromptLine(message string) (string, error) {
	require.NotEmpty(s.t, s.lines, "unexpected line prompt: %q", message)
	answer := s.lines[0]
	s.lines = s.lines[1:]
	return answer, nil
}

func (s *scriptedSession) Confirm(message string) (bool, error) {
	require.NotEmpty(s.t, s.confirms, "unexpected confirmation: %q", message)
	answer := s.confirms[0]
	s.confirms = s.confirms[1:]
	return answer, nil
}

func (s *scriptedSession) PrintStatus(message string, isError bool) {
	s.statuses = append(s.statuses, statusCall{message, isError})
}

func (s *scriptedSession) ExitProcess(message string, isError bool) {
	s.exits = append(s.exits, exitCall{message, isError})
}

func (s *scriptedSession) errorStatuses() []statusCall {
	var errs []statusCall
	for _, status := range s.statuses {
		if status.isError {
			errs = append(errs, status)
		}
	}
	return errs
}

func newResolver(t *testing.T, requiresPassword bool, dir string, session *scriptedSession) (*resolver.Resolver, *secrets.Store) {
	t.Helper()
	desc, err := secrets.NewDescriptor("dev", "development", requiresPassword, dir)
	require.NoError(t, err)
	store := secrets.NewStore(desc, logger.Nop())
	return resolver.New(store, session, logger.Nop()), store
}

func TestResolve_FreshCredential_NoPassword(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t:        t,
		confirms: []bool{true, true}, // add now; continue with token
		hidden:   []string{"abc123XYZ"},
	}
	r, store := newResolver(t, false, dir, session)

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "abc123XYZ", value)
	assert.True(t, store.Exists())
	assert.Empty(t, session.exits)

	// A second resolution must decrypt the saved file with no prompts.
	silent := &scriptedSession{t: t}
	r2, _ := newResolver(t, false, dir, silent)
	value, err = r2.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "abc123XYZ", value)
}

func TestResolve_WrongPasswordTwiceThenCorrect(t *testing.T) {
	dir := t.TempDir()
	seed := &scriptedSession{t: t}
	_, store := newResolver(t, true, dir, seed)
	require.NoError(t, store.Write("the-real-token", "correct-password"))

	session := &scriptedSession{
		t:      t,
		hidden: []string{"wrong-password-1", "wrong-password-2", "correct-password"},
	}
	r, _ := newResolver(t, true, dir, session)

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "the-real-token", value)
	assert.Empty(t, session.hidden, "all three password attempts must be consumed")

	failures := session.errorStatuses()
	require.Len(t, failures, 2)
	assert.NotEqual(t, failures[0].message, failures[1].message,
		"each failed attempt must produce a distinct message")
	assert.Empty(t, session.exits)
}

func TestResolve_UserDeclinesCreation(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t:        t,
		confirms: []bool{false},
	}
	r, store := newResolver(t, false, dir, session)

	_, err := r.Resolve()
	require.ErrorIs(t, err, resolver.ErrAborted)

	require.Len(t, session.exits, 1, "abort must invoke the exit path exactly once")
	assert.False(t, session.exits[0].isError, "declining is a clean exit, not an error")
	assert.False(t, store.Exists(), "no file may be created on decline")
}

func TestResolve_ExhaustedAttempts_DiscardAndRecreate(t *testing.T) {
	dir := t.TempDir()
	seed := &scriptedSession{t: t}
	_, store := newResolver(t, true, dir, seed)
	require.NoError(t, store.Write("the-old-token", "correct-password"))

	session := &scriptedSession{
		t: t,
		hidden: []string{
			"wrong-password-1", "wrong-password-2", "wrong-password-3",
			"the-new-token",       // secret value for the creation flow
			"brand-new-password",  // new password
			"brand-new-password",  // confirmation
		},
		confirms: []bool{
			true, // discard the undecryptable file
			true, // add a new token now
			true, // continue with the new token
		},
	}
	r, _ := newResolver(t, true, dir, session)

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "the-new-token", value)
	assert.Len(t, session.errorStatuses(), 3)

	got, err := store.Read("brand-new-password")
	require.NoError(t, err)
	assert.Equal(t, "the-new-token", got)

	_, err = store.Read("correct-password")
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed, "the old password must no longer work")
}

func TestResolve_ExhaustedAttempts_DeclineDiscard(t *testing.T) {
	dir := t.TempDir()
	seed := &scriptedSession{t: t}
	_, store := newResolver(t, true, dir, seed)
	require.NoError(t, store.Write("the-real-token", "correct-password"))

	session := &scriptedSession{
		t:        t,
		hidden:   []string{"wrong-password-1", "wrong-password-2", "wrong-password-3"},
		confirms: []bool{false}, // keep the file, give up
	}
	r, _ := newResolver(t, true, dir, session)

	_, err := r.Resolve()
	require.ErrorIs(t, err, resolver.ErrAborted)
	require.Len(t, session.exits, 1)
	assert.True(t, store.Exists(), "declining the discard must keep the file")
}

func TestResolve_CorruptFile_NoPassword_SingleFailureMessage(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t:        t,
		hidden:   []string{"abc123XYZ"},
		confirms: []bool{true, true, true}, // discard; add now; continue
	}
	r, store := newResolver(t, false, dir, session)

	path := store.Descriptor().FilePath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "abc123XYZ", value)

	// Without a password there is nothing new to try, so only one failed
	// attempt is reported before the discard choice.
	assert.Len(t, session.errorStatuses(), 1)
}

func TestResolve_AllowCreationFalse_MissingFile(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{t: t}
	r, store := newResolver(t, false, dir, session)
	r.AllowCreation = false

	_, err := r.Resolve()
	require.ErrorIs(t, err, resolver.ErrAborted)

	require.Len(t, session.exits, 1)
	assert.True(t, session.exits[0].isError)
	require.Len(t, session.statuses, 1)
	assert.True(t, session.statuses[0].isError)
	assert.False(t, store.Exists())
}

func TestResolve_InvalidValueReprompted(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t:        t,
		confirms: []bool{true, true},
		hidden:   []string{"abc", "abc123XYZ"}, // too short, then valid
	}
	r, _ := newResolver(t, false, dir, session)

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "abc123XYZ", value)

	failures := session.errorStatuses()
	require.Len(t, failures, 1)
	assert.NotEmpty(t, failures[0].message, "the validation reason must be shown")
}

func TestResolve_ShortPasswordThenRetry(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t: t,
		hidden: []string{
			"the-new-token",
			"short",              // below the minimum length
			"long-enough-pass",   // accepted
			"long-enough-pass",   // confirmation
		},
		confirms: []bool{
			true, // add now
			true, // try a different password
			true, // continue with the new token
		},
	}
	r, store := newResolver(t, true, dir, session)

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "the-new-token", value)

	got, err := store.Read("long-enough-pass")
	require.NoError(t, err)
	assert.Equal(t, "the-new-token", got)
}

func TestResolve_PasswordMismatchThenRetry(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t: t,
		hidden: []string{
			"the-new-token",
			"long-enough-pass",
			"does-not-match-1",  // wrong confirmation
			"long-enough-pass",  // matching confirmation
		},
		confirms: []bool{
			true, // add now
			true, // try the confirmation again
			true, // continue with the new token
		},
	}
	r, _ := newResolver(t, true, dir, session)

	value, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "the-new-token", value)
}

func TestResolve_DeclineShortPasswordRetry(t *testing.T) {
	dir := t.TempDir()
	session := &scriptedSession{
		t:        t,
		hidden:   []string{"the-new-token", "short"},
		confirms: []bool{true, false}, // add now; give up on the password
	}
	r, store := newResolver(t, true, dir, session)

	_, err := r.Resolve()
	require.ErrorIs(t, err, resolver.ErrAborted)
	require.Len(t, session.exits, 1)
	assert.False(t, store.Exists(), "nothing may be persisted on abort")
}
