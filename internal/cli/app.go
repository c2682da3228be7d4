package cli

import (
	"github.com/raoulx24/ghe-archiver/internal/archiver"
	"github.com/raoulx24/ghe-archiver/internal/config"
	"github.com/raoulx24/ghe-archiver/internal/fs"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/mailer"
	"github.com/raoulx24/ghe-archiver/internal/metrics"
	"github.com/raoulx24/ghe-archiver/internal/retention"
	"github.com/raoulx24/ghe-archiver/internal/worker"
)

// app holds the components shared by every command.
type app struct {
	log      logging.Logger
	fs       fs.FS
	metrics  *metrics.Metrics
	archiver *archiver.Archiver
	engine   *retention.Engine
	worker   *worker.Worker
	textfile string
}

func newApp(opts *RootOptions, mb *worker.Mailbox) *app {
	cfg := opts.cfg
	log := opts.log
	filesystem := fs.New()
	m := metrics.New()

	arch := archiver.New(filesystem, newPacker(cfg), newMailer(cfg), recipients(cfg), log)
	engine := retention.New(cfg.Codec(), worker.Options(cfg.Retention), filesystem, log)

	return &app{
		log:      log,
		fs:       filesystem,
		metrics:  m,
		archiver: arch,
		engine:   engine,
		worker:   worker.New(cfg, arch, engine, m, mb, opts.Clock, log),
		textfile: cfg.Metrics.Textfile,
	}
}

// apply hot-reloads cfg into every component.
func (a *app) apply(cfg *config.Config) {
	a.archiver.UpdateConfig(newPacker(cfg), newMailer(cfg), recipients(cfg))
	a.engine.UpdateConfig(cfg.Codec(), worker.Options(cfg.Retention))
	a.worker.UpdateConfig(cfg)
}

// writeTextfile exports the run metrics when a textfile is configured.
func (a *app) writeTextfile() {
	if a.textfile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.textfile); err != nil {
		a.log.Warn("cannot write metrics textfile", "path", a.textfile, "error", err)
	}
}

func newPacker(cfg *config.Config) archiver.Packer {
	return archiver.TarPacker{Compression: cfg.Compression}
}

func newMailer(cfg *config.Config) mailer.Sender {
	return mailer.NewSMTP(cfg.Email.SMTP)
}

func recipients(cfg *config.Config) archiver.Recipients {
	return archiver.Recipients{
		Sender: cfg.Email.Sender,
		To:     cfg.Email.Recipients,
	}
}
