// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package loader reads input documents into snapshot trees.
//
// An input is named by an argument of the form path[::format]. Without an
// explicit format the file extension decides:
//
//	.json .tfstate   JSON
//	.yaml .yml       YAML
//	.hcl .tfvars     HCL (attributes in source order, blocks nested by type
//	                 and labels)
//
// The path "-" reads JSON from stdin. JSON documents carrying OpenTofu
// encrypted_data are decrypted with a pbkdf2-derived AES-GCM key.
package loader
