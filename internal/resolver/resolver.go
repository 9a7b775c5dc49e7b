// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package resolver turns a credential descriptor into a usable plaintext
// secret value, driving the full interactive lifecycle: unlocking an
// existing encrypted file, retrying on wrong passwords, and walking the
// user through creating a new value when none exists or the old one is
// discarded.
//
// The flow is an explicit finite-state machine so retry bounds, abort
// conditions, and success conditions are each testable without a real
// terminal.
package resolver

import (
	"errors"
	"fmt"

	"github.com/nuztalgia/botstrap/internal/logger"
	"github.com/nuztalgia/botstrap/internal/secrets"
	"github.com/nuztalgia/botstrap/internal/terminal"
)

// ErrAborted reports that the user chose not to proceed. The session's
// ExitProcess has already been invoked exactly once when this is returned;
// it only surfaces to callers whose session implementation does not
// actually terminate the process (i.e. tests).
var ErrAborted = errors.New("credential resolution aborted by user")

// maxUnlockAttempts bounds how many password attempts are made before the
// discard-and-recreate choice is offered. The bound is a UX decision, not a
// security one; every failed attempt produces visible feedback.
const maxUnlockAttempts = 3

type state int

const (
	stateCheckExisting state = iota
	stateUnlock
	stateCreateNew
	stateResolved
	stateAborted
)

// Resolver drives the interactive resolution of one credential. It is the
// only layer that talks to the terminal session; the secret store never
// prompts or prints.
type Resolver struct {
	store   *secrets.Store
	session terminal.Session
	log     *logger.Logger

	// AllowCreation controls whether a missing key file starts the
	// interactive creation flow (true, the default) or reports the
	// missing token and aborts.
	AllowCreation bool
}

// New constructs a Resolver for the store's descriptor.
func New(store *secrets.Store, session terminal.Session, log *logger.Logger) *Resolver {
	return &Resolver{
		store:         store,
		session:       session,
		log:           log,
		AllowCreation: true,
	}
}

// Resolve runs the state machine to completion and returns the plaintext
// secret value. It returns ErrAborted after the user declines to proceed,
// and a wrapped secrets error on fatal storage failures.
func (r *Resolver) Resolve() (string, error) {
	st := stateCheckExisting
	var value string
	var err error

	for {
		switch st {
		case stateCheckExisting:
			if r.store.Exists() {
				st = stateUnlock
			} else {
				st = stateCreateNew
			}
		case stateUnlock:
			value, st, err = r.unlock()
		case stateCreateNew:
			value, st, err = r.createNew()
		case stateResolved:
			r.log.Info().Str("uid", r.store.Descriptor().UID).Msg("credential resolved")
			return value, nil
		case stateAborted:
			return "", ErrAborted
		}
		if err != nil {
			return "", err
		}
	}
}

// unlock attempts to decrypt the existing key file, prompting for a
// password when the descriptor requires one. After maxUnlockAttempts
// failures the user chooses between discarding the file (-> create) and
// aborting.
func (r *Resolver) unlock() (string, state, error) {
	desc := r.store.Descriptor()

	for attempt := 1; attempt <= maxUnlockAttempts; attempt++ {
		password := ""
		if desc.RequiresPassword {
			if attempt == 1 {
				r.session.PrintStatus(
					fmt.Sprintf("Your %s bot token is protected by a password.", desc), false)
			}
			var err error
			password, err = r.session.PromptHidden("Please enter your password")
			if err != nil {
				return "", stateUnlock, err
			}
		}

		value, err := r.store.Read(password)
		if err == nil {
			return value, stateResolved, nil
		}

		switch {
		case errors.Is(err, secrets.ErrKeyFileMissing):
			// The file disappeared between the existence check and the
			// read; fall through to the creation flow.
			return "", stateCreateNew, nil
		case isUnlockFailure(err):
			r.log.Debug().Str("uid", desc.UID).Int("attempt", attempt).Err(err).Msg("unlock failed")
			r.session.PrintStatus(fmt.Sprintf(
				"Decrypting your %s bot token failed (attempt %d of %d).",
				desc, attempt, maxUnlockAttempts), true)
			if !desc.RequiresPassword {
				// Without a password there is nothing new to try; the
				// fixed installation key either works or it doesn't.
				attempt = maxUnlockAttempts
			}
		default:
			return "", stateUnlock, err
		}
	}

	discard, err := r.session.Confirm(
		"Would you like to delete the saved file and set up a new bot token?")
	if err != nil {
		return "", stateUnlock, err
	}
	if !discard {
		return "", r.abort("Received a non-affirmative response.", false), nil
	}
	if err := r.store.Clear(); err != nil {
		return "", stateUnlock, err
	}
	return "", stateCreateNew, nil
}

// createNew walks the user through registering a new secret value:
// confirmation, masked entry with validation, optional password setup, and
// finally persisting the encrypted file.
func (r *Resolver) createNew() (string, state, error) {
	desc := r.store.Descriptor()

	if !r.AllowCreation {
		r.session.PrintStatus(
			fmt.Sprintf("You currently don't have a saved %s bot token.", desc), true)
		return "", r.abort("", true), nil
	}

	proceed, err := r.session.Confirm(fmt.Sprintf(
		"You currently don't have a saved %s bot token. Would you like to add one now?", desc))
	if err != nil {
		return "", stateCreateNew, err
	}
	if !proceed {
		return "", r.abort("Received a non-affirmative response.", false), nil
	}

	var value string
	for {
		value, err = r.session.PromptHidden(
			"Please enter your bot token now. It'll be hidden for security reasons")
		if err != nil {
			return "", stateCreateNew, err
		}
		ok, reason := r.store.Validate(value)
		if ok {
			break
		}
		r.session.PrintStatus(fmt.Sprintf("That doesn't look right: %s.", reason), true)
	}

	password := ""
	if desc.RequiresPassword {
		var st state
		password, st, err = r.createPassword()
		if err != nil || st == stateAborted {
			return "", st, err
		}
	}

	if err := r.store.Write(value, password); err != nil {
		return "", stateCreateNew, err
	}

	r.session.PrintStatus("Your bot token has been successfully encrypted and saved.", false)

	proceed, err = r.session.Confirm("Do you want to continue with this token now?")
	if err != nil {
		return "", stateCreateNew, err
	}
	if !proceed {
		return "", r.abort("Received a non-affirmative response.", false), nil
	}

	return value, stateResolved, nil
}

// createPassword obtains a new password for a password-protected secret:
// minimum length enforced with re-prompting, then entered twice to confirm.
func (r *Resolver) createPassword() (string, state, error) {
	desc := r.store.Descriptor()
	r.session.PrintStatus(fmt.Sprintf(
		"To keep your %s bot token extra safe, it must be protected by a password.", desc), false)

	var password string
	for {
		var err error
		password, err = r.session.PromptHidden("Please enter a password for your token")
		if err != nil {
			return "", stateCreateNew, err
		}
		if len(password) >= secrets.MinimumPasswordLength {
			break
		}
		r.session.PrintStatus(fmt.Sprintf(
			"Your password must be at least %d characters long.", secrets.MinimumPasswordLength), true)
		retry, err := r.session.Confirm("Would you like to try a different password?")
		if err != nil {
			return "", stateCreateNew, err
		}
		if !retry {
			return "", r.abort("Received a non-affirmative response.", false), nil
		}
	}

	for {
		confirmation, err := r.session.PromptHidden(
			"Please re-enter the same password again to confirm")
		if err != nil {
			return "", stateCreateNew, err
		}
		if confirmation == password {
			break
		}
		r.session.PrintStatus("That password doesn't match your original password.", true)
		retry, err := r.session.Confirm("Would you like to try again?")
		if err != nil {
			return "", stateCreateNew, err
		}
		if !retry {
			return "", r.abort("Received a non-affirmative response.", false), nil
		}
	}

	return password, stateCreateNew, nil
}

// abort invokes the session's exit path exactly once and moves the machine
// to its aborted terminal state.
func (r *Resolver) abort(message string, isError bool) state {
	r.log.Info().Str("uid", r.store.Descriptor().UID).Msg("resolution aborted")
	r.session.ExitProcess(message, isError)
	return stateAborted
}

// isUnlockFailure reports whether err is recoverable by re-prompting for a
// password: a wrong key, a tampered or malformed blob, or a password that
// fails the store's policy before decryption is even attempted.
func isUnlockFailure(err error) bool {
	return errors.Is(err, secrets.ErrDecryptionFailed) ||
		errors.Is(err, secrets.ErrPasswordRequired) ||
		errors.Is(err, secrets.ErrPasswordTooShort)
}
