package messages

import (
	"catadder/internal/adder"
	"catadder/internal/catalog"
)

// SubmitDoneMsg carries the result of a submission
type SubmitDoneMsg struct {
	Catalog *catalog.Catalog
	Outcome adder.Outcome
	Err     error
}

// DirectoryChangeMsg reports that the browsed directory changed on disk
type DirectoryChangeMsg struct{}

