package template

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store fetches raw template bodies from the template bucket.
type Store struct {
	client S3API
	bucket string
	log    *zap.SugaredLogger
}

func NewStore(client S3API, bucket string, log *zap.SugaredLogger) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		log:    log.Named("template-store"),
	}
}

// Fetch retrieves one template object and decodes it as UTF-8 text.
func (s *Store) Fetch(ctx context.Context, objectKey string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return "", fmt.Errorf("fetching template %q from bucket %s: %w", objectKey, s.bucket, err)
	}
	defer func() { _ = out.Body.Close() }()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("reading template %q: %w", objectKey, err)
	}
	return string(body), nil
}

// Resolver combines the catalog and the store behind the degrade-to-empty
// policy: whatever goes wrong, the pipeline receives a template body and
// keeps going.
type Resolver struct {
	catalog *Catalog
	store   *Store
	log     *zap.SugaredLogger
}

func NewResolver(catalog *Catalog, store *Store, log *zap.SugaredLogger) *Resolver {
	return &Resolver{
		catalog: catalog,
		store:   store,
		log:     log.Named("template-resolver"),
	}
}

// Resolve selects and fetches the template for a subject. Unknown subjects
// and fetch failures both yield an empty template body.
func (r *Resolver) Resolve(ctx context.Context, subject string) string {
	objectKey := r.catalog.Lookup(subject)
	if objectKey == "" {
		return ""
	}

	body, err := r.store.Fetch(ctx, objectKey)
	if err != nil {
		r.log.Warnw("template object could not be fetched, proceeding with empty template",
			"objectKey", objectKey, "error", err)
		metrics.TemplateFetchErrors.Inc()
		return ""
	}

	r.log.Infow("downloaded email template", "subject", subject, "objectKey", objectKey)
	return body
}
