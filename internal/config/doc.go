// Package config provides the persisted key/value store backing the branch
// hierarchy and the operation journal, plus typed accessors for repository
// options. All state lives in git config keys under the arbor namespace.
package config
