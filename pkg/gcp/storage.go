package gcp

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	berrors "bulkloader/pkg/errors"
)

const gcsScheme = "gs://"

// IsGCSURI reports whether path names a Cloud Storage object.
func IsGCSURI(path string) bool {
	return strings.HasPrefix(path, gcsScheme)
}

// ParseGCSURI splits gs://bucket/object.
func ParseGCSURI(uri string) (bucket, object string, ok bool) {
	if !IsGCSURI(uri) {
		return "", "", false
	}
	rest := strings.TrimPrefix(uri, gcsScheme)
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

type objectReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *objectReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenObject streams a Cloud Storage object. Closing the reader releases the
// storage client too.
func OpenObject(ctx context.Context, creds *google.Credentials, uri string) (io.ReadCloser, error) {
	bucket, object, ok := ParseGCSURI(uri)
	if !ok {
		return nil, berrors.ErrManifest.GenWithStackByArgs(uri, "want gs://bucket/object")
	}
	client, err := storage.NewClient(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, berrors.ErrManifest.GenWithStackByArgs(uri, err.Error())
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, berrors.ErrManifest.GenWithStackByArgs(uri, err.Error())
	}
	return &objectReader{Reader: r, client: client}, nil
}
