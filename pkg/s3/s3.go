package s3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

const (
	ItemTypeFile   = "file"
	ItemTypeFolder = "folder"

	folderDelimiter = "/"
)

type Bucket struct {
	Name             string    `json:"name"`
	CreationDateTime time.Time `json:"creationDateTime"`
}

// ObjectListing is the content of a bucket, or of one folder in it.
type ObjectListing struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
	Items  []Item `json:"itemList"`
}

// Item is a file or a folder. ETag and Size are only set for files.
type Item struct {
	Type string `json:"type"`
	Path string `json:"path"`
	ETag string `json:"etag,omitempty"`
	Size int64  `json:"size,omitempty"`
}

type Client struct {
	logger logrus.FieldLogger
	s3API  s3iface.S3API
}

func New(logger logrus.FieldLogger, s3API s3iface.S3API) *Client {
	return &Client{logger: logger, s3API: s3API}
}

// NewClient connects to S3 using overrides, falling back to the provider's
// configuration for anything left empty.
func NewClient(logger logrus.FieldLogger, overrides awsclient.Options, provider config.Provider) (*Client, error) {
	sess, err := awsclient.Connect(overrides, provider)
	if err != nil {
		return nil, err
	}
	return New(logger, s3.New(sess)), nil
}

func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := c.s3API.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "could not list S3 buckets")
	}
	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, Bucket{
			Name:             aws.StringValue(b.Name),
			CreationDateTime: aws.TimeValue(b.CreationDate),
		})
	}
	return buckets, nil
}

// ListObjects lists every key of bucket when folder is empty. Otherwise it
// lists the files directly inside folder and its immediate subfolders.
func (c *Client) ListObjects(ctx context.Context, bucket, folder string) (*ObjectListing, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if folder != "" {
		input.Prefix = aws.String(folder)
		input.Delimiter = aws.String(folderDelimiter)
	}

	c.logger.WithFields(logrus.Fields{"bucket": bucket, "folder": folder}).Debugf("listing objects")
	var pages []*s3.ListObjectsV2Output
	err := c.s3API.ListObjectsV2PagesWithContext(ctx, input, func(out *s3.ListObjectsV2Output, lastPage bool) bool {
		pages = append(pages, out)
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not list objects in 's3://%s/%s'", bucket, folder)
	}

	listing := FormatObjectList(pages...)
	if listing.Bucket == "" {
		listing.Bucket = bucket
	}
	return &listing, nil
}

// FormatObjectList flattens list pages into files followed by folders. The
// folder being listed is never reported as an entry of itself.
func FormatObjectList(pages ...*s3.ListObjectsV2Output) ObjectListing {
	var (
		listing ObjectListing
		folders []Item
	)
	listing.Items = []Item{}
	for _, page := range pages {
		if page == nil {
			continue
		}
		listing.Bucket = aws.StringValue(page.Name)
		listing.Prefix = aws.StringValue(page.Prefix)

		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if key == listing.Prefix {
				continue
			}
			listing.Items = append(listing.Items, Item{
				Type: ItemTypeFile,
				Path: key,
				ETag: aws.StringValue(obj.ETag),
				Size: aws.Int64Value(obj.Size),
			})
		}
		for _, p := range page.CommonPrefixes {
			prefix := aws.StringValue(p.Prefix)
			if prefix == listing.Prefix {
				continue
			}
			folders = append(folders, Item{Type: ItemTypeFolder, Path: prefix})
		}
	}
	listing.Items = append(listing.Items, folders...)
	return listing
}
