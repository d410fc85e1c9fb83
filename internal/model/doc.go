// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the Mingle
// server: messages, conversations, matches, personas, and the profile
// onboarding types. The server owns all of this data; the client holds
// read-mostly cached copies.
package model
