// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package session

import (
	"crypto/md5" //nolint:gosec // identifier derivation, not a secret

	"github.com/google/uuid"
)

// idPrefix is the fixed namespace prepended to the display name before
// hashing. Changing it would re-key every existing account.
const idPrefix = "NimbusPlayer:"

// DeriveID maps a display name to a stable account identifier: the MD5
// of the prefixed name, stamped with UUID version/variant bits and
// formatted canonically. Pure and offline; the same name always yields
// the same id, case-sensitively.
func DeriveID(displayName string) string {
	sum := md5.Sum([]byte(idPrefix + displayName)) //nolint:gosec // identifier derivation, not a secret
	sum[6] = (sum[6] & 0x0f) | 0x30                // version 3 (name-based, MD5)
	sum[8] = (sum[8] & 0x3f) | 0x80                // RFC 4122 variant
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		// FromBytes only fails on wrong length; an MD5 sum is always 16 bytes.
		panic(err)
	}
	return id.String()
}
