// Package services holds the engagement, notification and relationship logic.
// Every operation takes an explicit repositories.Store, runs under a per-call
// deadline and reports failures as *Error.
package services

import (
	"context"
	"time"

	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 5 * time.Second

// Options are shared by all service constructors.
type Options struct {
	Timeout time.Duration
	Logger  *logrus.Entry
}

type base struct {
	store   repositories.Store
	timeout time.Duration
	log     *logrus.Entry
}

func newBase(store repositories.Store, opts Options, component string) base {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return base{
		store:   store,
		timeout: timeout,
		log:     logger.WithField("component", component),
	}
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// fail logs storage failures and returns err as a service error.
func (b base) fail(op string, err error, fields logrus.Fields) error {
	err = storageError(err)
	if e, ok := err.(*Error); ok && e.Kind == KindStorage {
		b.log.WithFields(fields).WithField("op", op).WithError(e.Err).Error("storage failure")
	}
	return err
}
