package s3test

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func NewMockS3() *MockS3 {
	return &MockS3{
		buckets: map[string]*bucket{},
	}
}

type bucket struct {
	created time.Time
	objects map[string][]byte
}

// MockS3 mimics an S3 blob store for testing. Only the calls the s3 package
// makes are implemented.
type MockS3 struct {
	sync.RWMutex
	buckets map[string]*bucket
	s3iface.S3API

	// PageSize splits list results into pages of at most this many keys.
	PageSize int
}

func (m *MockS3) NewBucket(name string, created time.Time) {
	m.Lock()
	defer m.Unlock()
	m.buckets[name] = &bucket{created: created, objects: map[string][]byte{}}
}

func (m *MockS3) AddObject(bucketName, key string, data []byte) {
	m.Lock()
	defer m.Unlock()
	b, ok := m.buckets[bucketName]
	if !ok {
		b = &bucket{objects: map[string][]byte{}}
		m.buckets[bucketName] = b
	}
	b.objects[key] = data
}

func (m *MockS3) ListBucketsWithContext(ctx aws.Context, in *s3.ListBucketsInput, opts ...request.Option) (*s3.ListBucketsOutput, error) {
	m.RLock()
	defer m.RUnlock()

	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := new(s3.ListBucketsOutput)
	for _, name := range names {
		out.Buckets = append(out.Buckets, &s3.Bucket{
			Name:         aws.String(name),
			CreationDate: aws.Time(m.buckets[name].created),
		})
	}
	return out, nil
}

func (m *MockS3) ListObjectsV2PagesWithContext(ctx aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error {
	m.RLock()
	defer m.RUnlock()

	b, ok := m.buckets[*in.Bucket]
	if !ok {
		return fmt.Errorf("bucket '%s' does not exist", *in.Bucket)
	}
	prefix := aws.StringValue(in.Prefix)
	delimiter := aws.StringValue(in.Delimiter)

	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var (
		objects  []*s3.Object
		prefixes []*s3.CommonPrefix
		seen     = map[string]bool{}
	)
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		if delimiter != "" {
			if i := strings.Index(rest, delimiter); i >= 0 {
				common := prefix + rest[:i+len(delimiter)]
				if !seen[common] {
					seen[common] = true
					prefixes = append(prefixes, &s3.CommonPrefix{Prefix: aws.String(common)})
				}
				continue
			}
		}
		data := b.objects[key]
		objects = append(objects, &s3.Object{
			Key:  aws.String(key),
			ETag: aws.String(fmt.Sprintf("\"%x\"", len(data))),
			Size: aws.Int64(int64(len(data))),
		})
	}

	pageSize := m.PageSize
	if pageSize <= 0 {
		pageSize = len(objects) + 1
	}
	for start := 0; ; start += pageSize {
		end := start + pageSize
		if end > len(objects) {
			end = len(objects)
		}
		out := &s3.ListObjectsV2Output{
			Name:     in.Bucket,
			Prefix:   aws.String(prefix),
			Contents: objects[start:end],
		}
		last := end == len(objects)
		if last {
			out.CommonPrefixes = prefixes
		}
		if !fn(out, last) || last {
			return nil
		}
	}
}
