// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package registry holds the process-wide set of credential descriptors.
//
// The registry is populated once at startup from the token manifest and is
// read-only afterwards. It is passed explicitly to the components that need
// it instead of living in package-level state, so the resolver and secret
// store stay constructible in isolation.
package registry

import (
	"fmt"
	"sort"

	"github.com/nuztalgia/botstrap/internal/secrets"
)

// ErrDuplicateUID is returned by New when two descriptors share a uid.
var ErrDuplicateUID = fmt.Errorf("a token with this uid is already registered")

// Registry is an immutable uid → Descriptor mapping.
type Registry struct {
	byUID map[string]secrets.Descriptor
}

// New builds a Registry from descriptors, rejecting duplicate uids.
func New(descriptors ...secrets.Descriptor) (*Registry, error) {
	byUID := make(map[string]secrets.Descriptor, len(descriptors))
	for _, desc := range descriptors {
		if _, exists := byUID[desc.UID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateUID, desc.UID)
		}
		byUID[desc.UID] = desc
	}
	return &Registry{byUID: byUID}, nil
}

// Default returns the registry used when no manifest exists: an unprotected
// "dev" token and a password-protected "prod" token, both stored under the
// default hidden directory.
func Default() (*Registry, error) {
	dev, err := secrets.NewDescriptor("dev", "development", false, "")
	if err != nil {
		return nil, err
	}
	prod, err := secrets.NewDescriptor("prod", "production", true, "")
	if err != nil {
		return nil, err
	}
	return New(dev, prod)
}

// Get returns the descriptor registered under uid.
func (r *Registry) Get(uid string) (secrets.Descriptor, bool) {
	desc, ok := r.byUID[uid]
	return desc, ok
}

// All returns every registered descriptor, sorted by uid.
func (r *Registry) All() []secrets.Descriptor {
	all := make([]secrets.Descriptor, 0, len(r.byUID))
	for _, desc := range r.byUID {
		all = append(all, desc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UID < all[j].UID })
	return all
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.byUID)
}

// Orphans returns the key files in dir that no registered descriptor
// accounts for. The management UI offers these for deletion.
func (r *Registry) Orphans(dir string) ([]secrets.KeyFileInfo, error) {
	files, err := secrets.ListKeyFiles(dir)
	if err != nil {
		return nil, err
	}

	var orphans []secrets.KeyFileInfo
	for _, file := range files {
		if _, registered := r.byUID[file.UID]; !registered {
			orphans = append(orphans, file)
		}
	}
	return orphans, nil
}
