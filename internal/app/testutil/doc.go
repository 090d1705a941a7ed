// Package testutil holds testify mocks for the pipeline collaborators and
// small transcript fixtures shared across package tests.
package testutil
