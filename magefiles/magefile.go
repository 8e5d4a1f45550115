// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for cabplanner using Mage.
//
// Usage:
//
//	mage build          Compile the cabplanner binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run package tests without the CLI end-to-end tests
//	mage test:cli       Run the CLI end-to-end tests
//	mage test:postgres  Run the PostgreSQL dialect store tests
//	mage test:cover     Write a coverage profile to bin/coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install cabplanner to GOPATH/bin
//	mage stats          Print Go LOC and documentation word counts
package main
