// Package sink writes the final JSON report of a run to its configured
// destination.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cravindra/hyperverge-cli/pkg/upload"
	"github.com/sirupsen/logrus"
)

// Sink serializes a value to canonical JSON plus a trailing newline and
// writes it to standard output, appends it to a file, or puts it to an
// s3://bucket/key destination.
type Sink struct {
	log     logrus.FieldLogger
	out     io.Writer
	objects upload.ObjectWriter
}

// New creates a sink. objects may be nil when no object storage is
// configured; s3:// destinations then fail with a configuration error.
func New(log logrus.FieldLogger, objects upload.ObjectWriter) *Sink {
	return &Sink{
		log:     log.WithField("component", "sink"),
		out:     os.Stdout,
		objects: objects,
	}
}

// Emit writes v to dest. An empty dest means standard output; a plain path
// is appended to (created if absent); an s3:// URL is written as one object.
func (s *Sink) Emit(ctx context.Context, v any, dest string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing result: %w", err)
	}

	data = append(data, '\n')

	switch {
	case dest == "":
		if _, err := s.out.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
	case strings.HasPrefix(dest, "s3://"):
		if s.objects == nil {
			return fmt.Errorf("output %q requires an s3 configuration block", dest)
		}

		bucket, key, err := SplitS3URL(dest)
		if err != nil {
			return err
		}

		if err := s.objects.Put(ctx, bucket, key, data, "application/json"); err != nil {
			return fmt.Errorf("writing report object: %w", err)
		}
	default:
		if err := appendFile(dest, data); err != nil {
			return fmt.Errorf("writing to %s: %w", dest, err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"dest":  destName(dest),
		"bytes": len(data),
	}).Debug("Result written")

	return nil
}

// To binds the sink to a fixed destination.
func (s *Sink) To(dest string) *Destination {
	return &Destination{sink: s, dest: dest}
}

// Destination is a sink bound to one destination.
type Destination struct {
	sink *Sink
	dest string
}

// Emit writes v to the bound destination.
func (d *Destination) Emit(ctx context.Context, v any) error {
	return d.sink.Emit(ctx, v, d.dest)
}

// SplitS3URL splits "s3://bucket/key/parts" into bucket and key.
func SplitS3URL(dest string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(dest, "s3://")

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 destination %q, expected s3://bucket/key", dest)
	}

	return bucket, key, nil
}

func appendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

func destName(dest string) string {
	if dest == "" {
		return "stdout"
	}

	return dest
}
