package worker

import (
	"time"

	"github.com/raoulx24/ghe-archiver/internal/mailbox"
)

// Kind selects the flow a job runs.
type Kind string

const (
	KindArchive Kind = "archive"
	KindPrune   Kind = "prune"
)

// Job represents a run request submitted to the worker.
type Job struct {
	Kind      Kind
	Requested time.Time
}

// Mailbox holds at most one pending job per kind, so an archive request
// never displaces a prune request or the other way round.
type Mailbox = mailbox.Mailbox[Kind, Job]

// NewMailbox creates an empty per-kind mailbox.
func NewMailbox() *Mailbox {
	return mailbox.New(func(j Job) Kind { return j.Kind })
}
