// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// for botstrap.
//
// Configuration is assembled from multiple sources in the following
// priority order (earlier sources win for non-zero fields):
//  1. Environment variables (BOTSTRAP_* )
//  2. The TOML token manifest (path resolved from source 1)
//  3. Built-in defaults
//
// The main entry point is [Get]. The manifest also declares the registered
// tokens; [Config.Descriptors] converts them into secret descriptors.
package config
