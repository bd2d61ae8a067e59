// Package lld implements the host agent's low-level discovery conventions:
// macro name normalization and encoding of discovered entity records into
// the {"data":[...]} JSON wire format consumed by discovery rules.
package lld
