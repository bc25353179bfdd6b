package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logrus builds context scoped logrus entries sharing one level and output.
type Logrus struct {
	level  string
	output io.Writer
	json   bool
}

// NewLogrus creates a new logrus instance
func NewLogrus(level string, output io.Writer) *Logrus {
	return &Logrus{level: level, output: output}
}

// WithJSON switches the entries to the JSON formatter, for log shippers.
func (l *Logrus) WithJSON() *Logrus {
	l.json = true
	return l
}

// Get returns a logrus entry tagged with the given context.
func (l *Logrus) Get(context string) *logrus.Entry {
	log := logrus.New()
	level, err := logrus.ParseLevel(l.level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if l.json {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(l.output)
	return log.WithFields(logrus.Fields{
		"Context": context,
	})
}
