// Package archiver packs snapshot directories into dated archive files and
// raises an email alert when an archive cannot be written.
package archiver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/raoulx24/ghe-archiver/internal/fs"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/mailer"
	"github.com/raoulx24/ghe-archiver/internal/snapshot"
)

const AlertSubject = "GHE Snapshot Archiving Failed!"

var (
	ErrSnapshotNotFound = errors.New("invalid snapshot location")
	ErrArchiveWrite     = errors.New("cannot write archive")
	ErrAlertSend        = errors.New("cannot send alert email")
)

// Result describes a written archive.
type Result struct {
	Snapshot  snapshot.Snapshot
	Archive   string
	Artifacts int
	Bytes     int64 // archive size on disk
	Duration  time.Duration
}

// Recipients is who gets told about failures.
type Recipients struct {
	Sender string
	To     []string
}

// Archiver writes snapshot archives.
type Archiver struct {
	mu     sync.RWMutex
	fs     fs.FS
	packer Packer
	mail   mailer.Sender
	rcpt   Recipients
	log    logging.Logger
}

// New creates an archiver. A nil filesystem means the local disk and a nil
// packer an uncompressed tar.
func New(filesystem fs.FS, packer Packer, sender mailer.Sender, rcpt Recipients, log logging.Logger) *Archiver {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if packer == nil {
		packer = TarPacker{}
	}
	return &Archiver{
		fs:     filesystem,
		packer: packer,
		mail:   sender,
		rcpt:   rcpt,
		log:    log,
	}
}

// UpdateConfig swaps the packer, mailer and recipients used by later runs.
func (a *Archiver) UpdateConfig(packer Packer, sender mailer.Sender, rcpt Recipients) {
	if packer == nil {
		packer = TarPacker{}
	}
	a.mu.Lock()
	a.packer = packer
	a.mail = sender
	a.rcpt = rcpt
	a.mu.Unlock()
}

func (a *Archiver) settings() (Packer, mailer.Sender, Recipients) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.packer, a.mail, a.rcpt
}

// Tarball archives the snapshot at snapshotPath into archivePath.
//
// The destination is opened before the snapshot path is resolved. Any
// failure to write the destination sends an alert; the write error is
// returned whatever happens to the alert. The archive is written to a
// hidden temporary file and renamed into place once complete.
func (a *Archiver) Tarball(ctx context.Context, snapshotPath, archivePath string) (Result, error) {
	start := time.Now()
	res := Result{Archive: archivePath}
	tmp := tempName(archivePath)

	// step 1: destination
	out, err := a.fs.Create(tmp)
	if err != nil {
		a.log.Error("cannot write to file", "archive", archivePath, "error", err)
		return res, a.writeFailed(ctx, snapshotPath, archivePath, err)
	}

	// step 2: source
	snap, err := snapshot.Resolve(a.fs, snapshotPath)
	if err != nil {
		_ = out.Close()
		_ = a.fs.Remove(tmp)
		a.log.Error("invalid snapshot location", "snapshot", snapshotPath, "error", err)
		return res, fmt.Errorf("%w %s: %w", ErrSnapshotNotFound, snapshotPath, err)
	}
	res.Snapshot = snap
	if snap.Resolved() {
		a.log.Info("snapshot path resolved", "snapshot", snap.Path, "resolved", snap.Root)
	}

	a.log.Debug("archiving directory", "snapshot", snap.Root, "archive", archivePath)
	a.log.Info("creating tarball", "archive", archivePath)

	packer, _, _ := a.settings()
	artifacts, err := packer.Pack(ctx, a.fs.Sub(snap.Root), out)
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = a.fs.Rename(tmp, archivePath)
	}
	if err != nil {
		_ = a.fs.Remove(tmp)
		a.log.Error("cannot write to file", "archive", archivePath, "error", err)
		return res, a.writeFailed(ctx, snapshotPath, archivePath, err)
	}

	res.Artifacts = len(artifacts)
	if info, err := a.fs.Stat(archivePath); err == nil {
		res.Bytes = info.Size
	}
	res.Duration = time.Since(start)

	a.log.Info("directory archived",
		"snapshot", snap.Root,
		"archive", archivePath,
		"entries", res.Artifacts,
		"contentBytes", snapshot.TotalSize(artifacts),
		"bytes", res.Bytes,
		"duration", res.Duration.String(),
	)
	return res, nil
}

// writeFailed alerts on a best effort basis and returns the write error.
func (a *Archiver) writeFailed(ctx context.Context, snapshotPath, archivePath string, cause error) error {
	_, _, rcpt := a.settings()
	if err := a.Alert(ctx, rcpt.To, rcpt.Sender, snapshotPath, archivePath); err != nil {
		a.log.Warn("alert not delivered", "error", err)
	}
	return fmt.Errorf("%w %s: %w", ErrArchiveWrite, archivePath, cause)
}

// Alert tells recipients that archivePath could not be created from snapshotPath.
func (a *Archiver) Alert(ctx context.Context, recipients []string, sender, snapshotPath, archivePath string) error {
	a.log.Debug("sending alert email", "recipients", recipients)

	_, mail, _ := a.settings()
	if mail == nil {
		return fmt.Errorf("%w: no mailer configured", ErrAlertSend)
	}

	err := mail.Send(ctx, mailer.Message{
		From:    sender,
		To:      recipients,
		Subject: AlertSubject,
		Body:    fmt.Sprintf("Unable to create archive %s from snapshot at %s.\n", archivePath, snapshotPath),
	})
	if err != nil {
		a.log.Error("cannot send alert email", "recipients", recipients, "error", err)
		return fmt.Errorf("%w to %s: %w", ErrAlertSend, strings.Join(recipients, ","), err)
	}

	a.log.Info("alert email sent", "recipients", recipients)
	return nil
}

func tempName(archivePath string) string {
	dir, base := filepath.Split(archivePath)
	return filepath.Join(dir, "."+base+".tmp")
}
