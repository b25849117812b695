// Package account links provider accounts to gallery users through the
// OAuth authorization code flow and unlinks them again.
package account
