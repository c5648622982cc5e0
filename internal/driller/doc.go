// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller extracts values from rendered diff rows and snapshots by
// dotted path, for the output pipeline's attrs, filters and sort stages.
package driller
