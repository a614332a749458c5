package kinesis

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

// MaxRecordsPerRequest is the most records a single PutRecords call accepts.
const MaxRecordsPerRequest = 500

var (
	ErrInvalidShardCount = errors.New("a stream must be created with at least 1 shard")
	ErrNoStream          = errors.New("no stream name given and none configured")
	ErrTooManyRecords    = errors.Errorf("at most %d records can be put in one request", MaxRecordsPerRequest)
)

// Record is a single data blob to put on a stream. A random partition key is
// used when PartitionKey is empty.
type Record struct {
	Data         []byte
	PartitionKey string
}

// Client wraps the Kinesis API. Operations given an empty stream name use the
// client's default stream.
type Client struct {
	logger        logrus.FieldLogger
	kinesisAPI    kinesisiface.KinesisAPI
	defaultStream string
}

func New(logger logrus.FieldLogger, kinesisAPI kinesisiface.KinesisAPI, defaultStream string) *Client {
	return &Client{
		logger:        logger,
		kinesisAPI:    kinesisAPI,
		defaultStream: defaultStream,
	}
}

// NewClient connects to Kinesis. Empty overrides and an empty defaultStream
// are resolved from the provider's configuration.
func NewClient(logger logrus.FieldLogger, overrides awsclient.Options, defaultStream string, provider config.Provider) (*Client, error) {
	sess, err := awsclient.Connect(overrides, provider)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		err = config.Resolve(provider, config.Override{
			Value:      &defaultStream,
			FromConfig: func(c *config.Config) string { return c.AWS.Kinesis.StreamName },
		})
		if err != nil {
			return nil, err
		}
	}
	return New(logger, kinesis.New(sess), defaultStream), nil
}

func (c *Client) stream(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if c.defaultStream == "" {
		return "", ErrNoStream
	}
	return c.defaultStream, nil
}

// CreateStream creates a stream with the given number of shards and returns
// its description.
func (c *Client) CreateStream(ctx context.Context, name string, shards int64) (*kinesis.StreamDescription, error) {
	if shards < 1 {
		return nil, ErrInvalidShardCount
	}
	stream, err := c.stream(name)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{"stream": stream, "shards": shards}).Infof("creating stream")
	_, err = c.kinesisAPI.CreateStreamWithContext(ctx, &kinesis.CreateStreamInput{
		StreamName: aws.String(stream),
		ShardCount: aws.Int64(shards),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create stream %s", stream)
	}

	out, err := c.kinesisAPI.DescribeStreamWithContext(ctx, &kinesis.DescribeStreamInput{
		StreamName: aws.String(stream),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not describe stream %s", stream)
	}
	return out.StreamDescription, nil
}

func (c *Client) ListStreams(ctx context.Context) ([]string, error) {
	var streams []string
	err := c.kinesisAPI.ListStreamsPagesWithContext(ctx, &kinesis.ListStreamsInput{}, func(out *kinesis.ListStreamsOutput, lastPage bool) bool {
		streams = append(streams, aws.StringValueSlice(out.StreamNames)...)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not list streams")
	}
	return streams, nil
}

func (c *Client) PutRecord(ctx context.Context, data []byte, stream, partitionKey string) (*kinesis.PutRecordOutput, error) {
	stream, err := c.stream(stream)
	if err != nil {
		return nil, err
	}
	if partitionKey == "" {
		partitionKey = uuid.New().String()
	}
	out, err := c.kinesisAPI.PutRecordWithContext(ctx, &kinesis.PutRecordInput{
		StreamName:   aws.String(stream),
		Data:         data,
		PartitionKey: aws.String(partitionKey),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not put record on stream %s", stream)
	}
	return out, nil
}

// PutRecords puts up to MaxRecordsPerRequest records in one call. Records
// rejected by Kinesis are reported in the output's FailedRecordCount.
func (c *Client) PutRecords(ctx context.Context, records []Record, stream string) (*kinesis.PutRecordsOutput, error) {
	if len(records) > MaxRecordsPerRequest {
		return nil, ErrTooManyRecords
	}
	stream, err := c.stream(stream)
	if err != nil {
		return nil, err
	}

	entries := make([]*kinesis.PutRecordsRequestEntry, 0, len(records))
	for _, r := range records {
		key := r.PartitionKey
		if key == "" {
			key = uuid.New().String()
		}
		entries = append(entries, &kinesis.PutRecordsRequestEntry{
			Data:         r.Data,
			PartitionKey: aws.String(key),
		})
	}
	out, err := c.kinesisAPI.PutRecordsWithContext(ctx, &kinesis.PutRecordsInput{
		StreamName: aws.String(stream),
		Records:    entries,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not put %d records on stream %s", len(records), stream)
	}
	if failed := aws.Int64Value(out.FailedRecordCount); failed > 0 {
		c.logger.WithField("stream", stream).Warnf("%d of %d records were rejected", failed, len(records))
	}
	return out, nil
}

// ListShards returns the shards of a stream. With onlyOpen, shards that were
// closed by a split or merge are left out.
func (c *Client) ListShards(ctx context.Context, stream string, onlyOpen bool) ([]*kinesis.Shard, error) {
	stream, err := c.stream(stream)
	if err != nil {
		return nil, err
	}

	var shards []*kinesis.Shard
	err = c.kinesisAPI.DescribeStreamPagesWithContext(ctx, &kinesis.DescribeStreamInput{
		StreamName: aws.String(stream),
	}, func(out *kinesis.DescribeStreamOutput, lastPage bool) bool {
		if out.StreamDescription != nil {
			shards = append(shards, out.StreamDescription.Shards...)
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not describe stream %s", stream)
	}
	if !onlyOpen {
		return shards, nil
	}

	open := make([]*kinesis.Shard, 0, len(shards))
	for _, shard := range shards {
		if IsOpen(shard) {
			open = append(open, shard)
		}
	}
	return open, nil
}

// IsOpen reports whether a shard still accepts records.
func IsOpen(shard *kinesis.Shard) bool {
	return shard.SequenceNumberRange == nil || shard.SequenceNumberRange.EndingSequenceNumber == nil
}

// SplitShard splits shardID in two at newStartingHashKey.
func (c *Client) SplitShard(ctx context.Context, stream, shardID, newStartingHashKey string) error {
	stream, err := c.stream(stream)
	if err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{"stream": stream, "shard": shardID}).Infof("splitting shard")
	_, err = c.kinesisAPI.SplitShardWithContext(ctx, &kinesis.SplitShardInput{
		StreamName:         aws.String(stream),
		ShardToSplit:       aws.String(shardID),
		NewStartingHashKey: aws.String(newStartingHashKey),
	})
	return errors.Wrapf(err, "could not split shard %s of stream %s", shardID, stream)
}

// MergeShards merges two adjacent shards into a new one covering both hash
// key ranges. The parents are closed but keep their data until it expires.
func (c *Client) MergeShards(ctx context.Context, stream, shardID, adjacentShardID string) error {
	stream, err := c.stream(stream)
	if err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{"stream": stream, "shard": shardID, "adjacent": adjacentShardID}).Infof("merging shards")
	_, err = c.kinesisAPI.MergeShardsWithContext(ctx, &kinesis.MergeShardsInput{
		StreamName:           aws.String(stream),
		ShardToMerge:         aws.String(shardID),
		AdjacentShardToMerge: aws.String(adjacentShardID),
	})
	return errors.Wrapf(err, "could not merge shards %s and %s of stream %s", shardID, adjacentShardID, stream)
}
