// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry_test

import (
	"testing"

	"github.com/nuztalgia/botstrap/internal/logger"
	"github.com/nuztalgia/botstrap/internal/registry"
	"github.com/nuztalgia/botstrap/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDescriptor(t *testing.T, uid, dir string) secrets.Descriptor {
	t.Helper()
	desc, err := secrets.NewDescriptor(uid, "", false, dir)
	require.NoError(t, err)
	return desc
}

func TestNew_GetAndAll(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.New(
		mustDescriptor(t, "prod", dir),
		mustDescriptor(t, "dev", dir),
	)
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	dev, ok := reg.Get("dev")
	require.True(t, ok)
	assert.Equal(t, "dev", dev.UID)

	_, ok = reg.Get("staging")
	assert.False(t, ok)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "dev", all[0].UID)
	assert.Equal(t, "prod", all[1].UID)
}

func TestNew_RejectsDuplicateUID(t *testing.T) {
	dir := t.TempDir()
	_, err := registry.New(
		mustDescriptor(t, "dev", dir),
		mustDescriptor(t, "dev", dir),
	)
	assert.ErrorIs(t, err, registry.ErrDuplicateUID)
}

func TestDefault(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	dev, ok := reg.Get("dev")
	require.True(t, ok)
	assert.False(t, dev.RequiresPassword)

	prod, ok := reg.Get("prod")
	require.True(t, ok)
	assert.True(t, prod.RequiresPassword)
}

func TestOrphans(t *testing.T) {
	dir := t.TempDir()
	registered := mustDescriptor(t, "dev", dir)
	stray := mustDescriptor(t, "old_bot", dir)

	require.NoError(t, secrets.NewStore(registered, logger.Nop()).Write("abc123XYZ", ""))
	require.NoError(t, secrets.NewStore(stray, logger.Nop()).Write("abc123XYZ", ""))

	reg, err := registry.New(registered)
	require.NoError(t, err)

	orphans, err := reg.Orphans(dir)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "old_bot", orphans[0].UID)
}

func TestOrphans_EmptyDirectory(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)

	orphans, err := reg.Orphans(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, orphans)
}
