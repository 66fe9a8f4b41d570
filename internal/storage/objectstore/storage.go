package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"dune_voyages/internal/config"
	"dune_voyages/internal/lib/keyutil"
	"dune_voyages/internal/metrics"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the wrapper around the S3-compatible bucket. Every key
// passed in is expected to be pre-sanitized (keyutil) at the write boundary.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error

	PresignedPut(ctx context.Context, key, contentType string) (string, error)
	PresignedGet(ctx context.Context, key string) (string, error)

	PublicURL(key string) string
	FirstImageKey(ctx context.Context, folder string) (string, error)
	ListImageURLs(ctx context.Context, prefix string) ([]string, error)
}

type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	signTTL    time.Duration
}

func New(cfg config.ObjectStorageConfig) (*MinioStorage, error) {
	const op = "storage.objectstore.New"

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	if i := strings.Index(endpoint, "/"); i != -1 {
		endpoint = endpoint[:i]
	}

	// Default transport keeps only 2 idle conns per host, which churns
	// connections when many images load concurrently.
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		signTTL:    cfg.SignTTL,
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	record("put", err)
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (s *MinioStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	record("get", err)
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	return obj, nil
}

func (s *MinioStorage) List(ctx context.Context, prefix string) ([]string, error) {
	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var keys []string
	for obj := range ch {
		if obj.Err != nil {
			record("list", obj.Err)
			return nil, fmt.Errorf("list objects %q: %w", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	record("list", nil)
	return keys, nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	record("remove", err)
	if err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// PresignedPut signs a direct browser PUT for one key. The Content-Type
// header is bound into the signature so the client cannot swap it.
func (s *MinioStorage) PresignedPut(ctx context.Context, key, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, s.signTTL, url.Values{}, headers)
	record("presign_put", err)
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", key, err)
	}
	return u.String(), nil
}

func (s *MinioStorage) PresignedGet(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, url.Values{})
	record("presign_get", err)
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w", key, err)
	}
	return u.String(), nil
}

// PublicURL joins the configured public base with the URI-escaped key.
// Returns "" when no public base is configured.
func (s *MinioStorage) PublicURL(key string) string {
	return JoinPublicURL(s.publicBase, key)
}

// FirstImageKey lists everything under sanitize(folder)+"/" and returns the
// lexicographically first key with a known image extension, or "" when the
// folder holds no images.
func (s *MinioStorage) FirstImageKey(ctx context.Context, folder string) (string, error) {
	prefix := strings.TrimRight(keyutil.Sanitize(folder), "/") + "/"

	keys, err := s.List(ctx, prefix)
	if err != nil {
		return "", err
	}
	return FirstImage(keys), nil
}

func (s *MinioStorage) ListImageURLs(ctx context.Context, prefix string) ([]string, error) {
	p := strings.Trim(prefix, "/")
	if p != "" {
		p += "/"
	}

	keys, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}

	var imgs []string
	for _, k := range keys {
		if keyutil.IsImageKey(k) {
			imgs = append(imgs, k)
		}
	}
	sort.Strings(imgs)

	urls := make([]string, 0, len(imgs))
	for _, k := range imgs {
		urls = append(urls, s.PublicURL(k))
	}
	return urls, nil
}

// record counts one object-store call towards the metrics endpoint.
func record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObjectStoreCalls.WithLabelValues(op, outcome).Inc()
}

// FirstImage picks the lexicographically first image key from keys.
func FirstImage(keys []string) string {
	var imgs []string
	for _, k := range keys {
		if k != "" && keyutil.IsImageKey(k) {
			imgs = append(imgs, k)
		}
	}
	if len(imgs) == 0 {
		return ""
	}
	sort.Strings(imgs)
	return imgs[0]
}

// JoinPublicURL escapes each path segment of key while keeping the slashes,
// mirroring encodeURI on the public base.
func JoinPublicURL(base, key string) string {
	if base == "" {
		return ""
	}
	key = strings.TrimLeft(key, "/")

	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}
