package people

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// s3API is the subset of *s3.Client used by S3Repository.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Options configures an S3 (or S3 compatible) people store.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	PathStyle       bool
	AccessKeyID     string // optional, default credential chain otherwise
	SecretAccessKey string
	Prefix          string
}

// S3Repository keeps people as JSON objects in a bucket, laid out like the
// fs driver under Prefix.
type S3Repository struct {
	client  s3API
	bucket  string
	prefix  string
	folders map[models.Role]string
}

func NewS3Repository(client s3API, bucket, prefix string, folders map[models.Role]string) *S3Repository {
	return &S3Repository{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		folders: folders,
	}
}

// OpenS3 builds an S3Repository from opts using the default AWS config chain.
func OpenS3(ctx context.Context, opts S3Options, folders map[models.Role]string) (*S3Repository, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return NewS3Repository(client, opts.Bucket, opts.Prefix, folders), nil
}

func (r *S3Repository) objectKey(parts ...string) string {
	if r.prefix != "" {
		parts = append([]string{r.prefix}, parts...)
	}
	return path.Join(parts...)
}

func (r *S3Repository) rolePrefix(role models.Role) (string, error) {
	f, err := folderOf(r.folders, role)
	if err != nil {
		return "", err
	}
	return r.objectKey(f) + "/", nil
}

func (r *S3Repository) put(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// get decodes the object at key into v. A missing object reports false.
func (r *S3Repository) get(ctx context.Context, key string, v any) (bool, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(key)})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *S3Repository) keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *S3Repository) Save(ctx context.Context, rec models.Record) error {
	prefix, err := r.rolePrefix(rec.Role)
	if err != nil {
		return err
	}
	return r.put(ctx, prefix+fileName(rec.Key()), rec)
}

func (r *S3Repository) List(ctx context.Context, role models.Role) ([]models.Record, error) {
	prefix, err := r.rolePrefix(role)
	if err != nil {
		return nil, err
	}
	keys, err := r.keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	recs := make([]models.Record, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, recordExt) {
			continue
		}
		var rec models.Record
		ok, err := r.get(ctx, k, &rec)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rec.Role = role
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *S3Repository) Exists(ctx context.Context, role models.Role) (bool, error) {
	prefix, err := r.rolePrefix(role)
	if err != nil {
		return false, err
	}
	out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(r.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("list %s: %w", prefix, err)
	}
	return len(out.Contents) > 0, nil
}

func (r *S3Repository) Clear(ctx context.Context, role models.Role) error {
	prefix, err := r.rolePrefix(role)
	if err != nil {
		return err
	}
	keys, err := r.keys(ctx, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(k)}); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

// Replace uploads recs first and only then deletes the objects they do not
// overwrite, so a failed upload never loses stored records.
func (r *S3Repository) Replace(ctx context.Context, role models.Role, recs []models.Record) error {
	prefix, err := r.rolePrefix(role)
	if err != nil {
		return err
	}
	stale, err := r.keys(ctx, prefix)
	if err != nil {
		return err
	}

	written := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		rec.Role = role
		k := prefix + fileName(rec.Key())
		if err := r.put(ctx, k, rec); err != nil {
			return err
		}
		written[k] = struct{}{}
	}
	for _, k := range stale {
		if _, ok := written[k]; ok {
			continue
		}
		if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(k)}); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

func (r *S3Repository) state(ctx context.Context) (map[string]string, error) {
	state := map[string]string{}
	if _, err := r.get(ctx, r.objectKey(stateFile), &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *S3Repository) GetMeta(ctx context.Context, key string) (string, bool, error) {
	state, err := r.state(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := state[key]
	return v, ok, nil
}

func (r *S3Repository) SetMeta(ctx context.Context, key, value string) error {
	state, err := r.state(ctx)
	if err != nil {
		return err
	}
	state[key] = value
	return r.put(ctx, r.objectKey(stateFile), state)
}

func (r *S3Repository) Close() error { return nil }
