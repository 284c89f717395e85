// Package dataio loads numeric datasets for the proclus command: local or
// S3-hosted files, optionally gzip, zstd or lz4 compressed, in a
// delimiter-separated text format.
package dataio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pierrec/lz4/v4"
)

// S3Options configures access to S3-compatible object storage.
type S3Options struct {
	// Endpoint is the host[:port] of the service. Default: s3.amazonaws.com.
	Endpoint string
	// Insecure disables TLS.
	Insecure bool
	// Creds supplies credentials. Default: the AWS_* environment variables.
	Creds *credentials.Credentials
}

// S3OptionsFromEnv reads PROCLUS_S3_ENDPOINT and PROCLUS_S3_INSECURE.
func S3OptionsFromEnv() S3Options {
	return S3Options{
		Endpoint: os.Getenv("PROCLUS_S3_ENDPOINT"),
		Insecure: os.Getenv("PROCLUS_S3_INSECURE") == "true",
	}
}

// Open opens a dataset by location. "s3://bucket/key" locations are read
// through the S3 API; anything else is a local path. The stream is
// transparently decompressed based on the file extension (.gz, .zst, .lz4).
func Open(ctx context.Context, location string, s3 S3Options) (io.ReadCloser, error) {
	var raw io.ReadCloser
	if bucket, key, ok := parseS3(location); ok {
		obj, err := openS3(ctx, bucket, key, s3)
		if err != nil {
			return nil, fmt.Errorf("dataio: open %s: %w", location, err)
		}
		raw = obj
	} else {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("dataio: %w", err)
		}
		raw = f
	}

	rc, err := Decompress(raw, path.Ext(location))
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("dataio: open %s: %w", location, err)
	}
	return rc, nil
}

// parseS3 splits "s3://bucket/key" into its parts.
func parseS3(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func openS3(ctx context.Context, bucket, key string, opts S3Options) (io.ReadCloser, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	creds := opts.Creds
	if creds == nil {
		creds = credentials.NewEnvAWS()
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: !opts.Insecure,
	})
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces missing objects and auth errors now.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// Decompress wraps r in a decompressor chosen by extension. Unknown
// extensions return r unchanged. Closing the result closes r.
func Decompress(r io.ReadCloser, ext string) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".gz", ".gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stackedReader{Reader: zr, closers: []func() error{zr.Close, r.Close}}, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stackedReader{Reader: dec, closers: []func() error{
			func() error { dec.Close(); return nil },
			r.Close,
		}}, nil
	case ".lz4":
		return &stackedReader{Reader: lz4.NewReader(r), closers: []func() error{r.Close}}, nil
	default:
		return r, nil
	}
}

// stackedReader reads from the outermost decoder and closes every layer.
type stackedReader struct {
	io.Reader
	closers []func() error
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
