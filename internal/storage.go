package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ObjectStore is the subset of Cloud Storage the transcriber needs
type ObjectStore interface {
	// EnsureBucket creates the bucket in location when it does not exist yet.
	// It reports whether the bucket was created by this call.
	EnsureBucket(ctx context.Context, bucket, project, location string) (bool, error)
	// Upload streams r into bucket/object and returns its gs:// URI
	Upload(ctx context.Context, bucket, object string, r io.Reader, contentType string) (string, error)
	// WriteObject stores data in bucket/object and returns its gs:// URI
	WriteObject(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error)
}

// GCSStore implements ObjectStore on the Cloud Storage client library.
// Credentials always come from the ambient application default credentials.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a Cloud Storage backed store
func NewGCSStore(ctx context.Context, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, ConfigError("creating storage client", err,
			"run gcloud auth application-default login or set GOOGLE_APPLICATION_CREDENTIALS")
	}
	return &GCSStore{client: client}, nil
}

// Close releases the underlying client
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// EnsureBucket implements ObjectStore
func (s *GCSStore) EnsureBucket(ctx context.Context, bucket, project, location string) (bool, error) {
	handle := s.client.Bucket(bucket)

	_, err := handle.Attrs(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return false, RemoteError(fmt.Sprintf("checking bucket %s", bucket), err, bucketReadHint(err, bucket))
	}

	if err := handle.Create(ctx, project, &storage.BucketAttrs{Location: location}); err != nil {
		// Someone else may have created it in the meantime
		if apiErrorCode(err) == http.StatusConflict {
			if _, attrsErr := handle.Attrs(ctx); attrsErr == nil {
				return false, nil
			}
		}
		return false, RemoteError(fmt.Sprintf("creating bucket %s in %s", bucket, location), err, storageHint(err, bucket))
	}
	return true, nil
}

// Upload implements ObjectStore
func (s *GCSStore) Upload(ctx context.Context, bucket, object string, r io.Reader, contentType string) (string, error) {
	if err := s.write(ctx, bucket, object, r, contentType); err != nil {
		return "", RemoteError(fmt.Sprintf("uploading to %s", GCSURI(bucket, object)), err, storageHint(err, bucket))
	}
	return GCSURI(bucket, object), nil
}

// WriteObject implements ObjectStore
func (s *GCSStore) WriteObject(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error) {
	if err := s.write(ctx, bucket, object, bytes.NewReader(data), contentType); err != nil {
		return "", WriteError(fmt.Sprintf("writing %s", GCSURI(bucket, object)), err, storageHint(err, bucket))
	}
	return GCSURI(bucket, object), nil
}

func (s *GCSStore) write(ctx context.Context, bucket, object string, r io.Reader, contentType string) error {
	// cancelling the writer's context aborts the upload
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return errors.Wrap(err, "copying data")
	}
	return w.Close()
}

// apiErrorCode returns the HTTP status of a Google API error, or 0
func apiErrorCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// bucketReadHint covers the metadata read; object roles do not include storage.buckets.get
func bucketReadHint(err error, bucket string) string {
	if apiErrorCode(err) == http.StatusForbidden {
		return fmt.Sprintf("reading gs://%s needs storage.buckets.get (e.g. roles/storage.legacyBucketReader, or roles/storage.admin to create it); if the bucket belongs to another project, pass --bucket", bucket)
	}
	return storageHint(err, bucket)
}

// storageHint returns guidance for the common permission and naming failures
func storageHint(err error, bucket string) string {
	switch apiErrorCode(err) {
	case http.StatusUnauthorized:
		return "refresh credentials with gcloud auth application-default login"
	case http.StatusForbidden:
		return fmt.Sprintf("the active account needs roles/storage.objectAdmin on gs://%s (roles/storage.admin to create it); if the bucket belongs to another project, pass --bucket", bucket)
	case http.StatusConflict:
		return fmt.Sprintf("bucket names are global and gs://%s is taken; pass --bucket with another name", bucket)
	case http.StatusNotFound:
		return fmt.Sprintf("gs://%s does not exist; check --bucket and --project", bucket)
	}
	return ""
}
