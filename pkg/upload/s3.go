package upload

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cravindra/hyperverge-cli/pkg/config"
	"github.com/sirupsen/logrus"
)

// s3Writer implements ObjectWriter for S3-compatible storage.
type s3Writer struct {
	log    logrus.FieldLogger
	client *s3.Client
}

// Ensure interface compliance.
var _ ObjectWriter = (*s3Writer)(nil)

// NewS3Writer creates an S3-backed object writer from the given configuration.
func NewS3Writer(log logrus.FieldLogger, cfg *config.S3Config) ObjectWriter {
	opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.Region != "" {
				o.Region = cfg.Region
			} else {
				o.Region = "us-east-1"
			}

			if cfg.EndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.EndpointURL)
			}

			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}

			if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
				o.Credentials = credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID, cfg.SecretAccessKey, "",
				)
			}
		},
	}

	client := s3.New(s3.Options{}, opts...)

	return &s3Writer{
		log:    log.WithField("component", "s3-writer"),
		client: client,
	}
}

// Put writes one object.
func (w *s3Writer) Put(
	ctx context.Context, bucket, key string, data []byte, contentType string,
) error {
	w.log.WithFields(logrus.Fields{
		"bucket": bucket,
		"key":    key,
		"bytes":  len(data),
	}).Debug("Writing object")

	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("PutObject s3://%s/%s: %w", bucket, key, err)
	}

	return nil
}
