package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Level  string
	Format string // "json" ou "text"
	Output io.Writer
}

// New monta o logger da aplicação. Nível inválido cai para info.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

// InitSentry liga o envio de erros. DSN vazio = desligado.
func InitSentry(dsn, environment string) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError loga o erro e manda para o Sentry com tag e extras.
// Sem sentry.Init o envio é no-op.
func CaptureError(errorType string, err error, extra map[string]interface{}) {
	if err == nil {
		return
	}

	fields := logrus.Fields{"error_type": errorType}
	for k, v := range extra {
		fields[k] = v
	}
	logrus.WithFields(fields).WithError(err).Debug("erro capturado")

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// LogEvent registra um evento de negócio e deixa um breadcrumb no Sentry.
func LogEvent(log logrus.FieldLogger, eventType string, data map[string]interface{}) {
	log.WithFields(logrus.Fields(data)).WithField("event_type", eventType).Info("evento")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}
