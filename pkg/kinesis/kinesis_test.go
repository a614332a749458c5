package kinesis

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKinesis struct {
	kinesisiface.KinesisAPI

	shardPages [][]*kinesis.Shard
	streams    []string

	created    *kinesis.CreateStreamInput
	putRecord  *kinesis.PutRecordInput
	putRecords *kinesis.PutRecordsInput
	split      *kinesis.SplitShardInput
	merged     *kinesis.MergeShardsInput
}

func (f *fakeKinesis) CreateStreamWithContext(ctx aws.Context, in *kinesis.CreateStreamInput, opts ...request.Option) (*kinesis.CreateStreamOutput, error) {
	f.created = in
	return &kinesis.CreateStreamOutput{}, nil
}

func (f *fakeKinesis) DescribeStreamWithContext(ctx aws.Context, in *kinesis.DescribeStreamInput, opts ...request.Option) (*kinesis.DescribeStreamOutput, error) {
	return &kinesis.DescribeStreamOutput{StreamDescription: &kinesis.StreamDescription{
		StreamName:   in.StreamName,
		StreamStatus: aws.String(kinesis.StreamStatusCreating),
	}}, nil
}

func (f *fakeKinesis) DescribeStreamPagesWithContext(ctx aws.Context, in *kinesis.DescribeStreamInput, fn func(*kinesis.DescribeStreamOutput, bool) bool, opts ...request.Option) error {
	for i, page := range f.shardPages {
		out := &kinesis.DescribeStreamOutput{StreamDescription: &kinesis.StreamDescription{
			StreamName:    in.StreamName,
			Shards:        page,
			HasMoreShards: aws.Bool(i < len(f.shardPages)-1),
		}}
		if !fn(out, i == len(f.shardPages)-1) {
			break
		}
	}
	return nil
}

func (f *fakeKinesis) ListStreamsPagesWithContext(ctx aws.Context, in *kinesis.ListStreamsInput, fn func(*kinesis.ListStreamsOutput, bool) bool, opts ...request.Option) error {
	fn(&kinesis.ListStreamsOutput{StreamNames: aws.StringSlice(f.streams), HasMoreStreams: aws.Bool(false)}, true)
	return nil
}

func (f *fakeKinesis) PutRecordWithContext(ctx aws.Context, in *kinesis.PutRecordInput, opts ...request.Option) (*kinesis.PutRecordOutput, error) {
	f.putRecord = in
	return &kinesis.PutRecordOutput{ShardId: aws.String("shardId-000000000000"), SequenceNumber: aws.String("1")}, nil
}

func (f *fakeKinesis) PutRecordsWithContext(ctx aws.Context, in *kinesis.PutRecordsInput, opts ...request.Option) (*kinesis.PutRecordsOutput, error) {
	f.putRecords = in
	return &kinesis.PutRecordsOutput{FailedRecordCount: aws.Int64(0)}, nil
}

func (f *fakeKinesis) SplitShardWithContext(ctx aws.Context, in *kinesis.SplitShardInput, opts ...request.Option) (*kinesis.SplitShardOutput, error) {
	f.split = in
	return &kinesis.SplitShardOutput{}, nil
}

func (f *fakeKinesis) MergeShardsWithContext(ctx aws.Context, in *kinesis.MergeShardsInput, opts ...request.Option) (*kinesis.MergeShardsOutput, error) {
	f.merged = in
	return &kinesis.MergeShardsOutput{}, nil
}

func shard(id string, closed bool) *kinesis.Shard {
	s := &kinesis.Shard{
		ShardId:             aws.String(id),
		SequenceNumberRange: &kinesis.SequenceNumberRange{StartingSequenceNumber: aws.String("100")},
	}
	if closed {
		s.SequenceNumberRange.EndingSequenceNumber = aws.String("200")
	}
	return s
}

func TestCreateStream(t *testing.T) {
	fake := &fakeKinesis{}
	client := New(logrus.New(), fake, "events")

	_, err := client.CreateStream(context.Background(), "", 0)
	assert.Equal(t, ErrInvalidShardCount, err)
	assert.Nil(t, fake.created, "no stream must be created with an invalid shard count")

	desc, err := client.CreateStream(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, "events", *fake.created.StreamName, "the default stream is used when no name is given")
	assert.Equal(t, int64(2), *fake.created.ShardCount)
	assert.Equal(t, "events", *desc.StreamName)
}

func TestStreamNameRequired(t *testing.T) {
	client := New(logrus.New(), &fakeKinesis{}, "")
	_, err := client.PutRecord(context.Background(), []byte("x"), "", "")
	assert.Equal(t, ErrNoStream, err)
}

func TestPutRecordGeneratesPartitionKey(t *testing.T) {
	fake := &fakeKinesis{}
	client := New(logrus.New(), fake, "events")

	_, err := client.PutRecord(context.Background(), []byte(`{"event":"click"}`), "", "")
	require.NoError(t, err)
	_, err = uuid.Parse(*fake.putRecord.PartitionKey)
	assert.NoError(t, err, "expected a UUID partition key")

	_, err = client.PutRecord(context.Background(), []byte(`{}`), "audit", "user-42")
	require.NoError(t, err)
	assert.Equal(t, "audit", *fake.putRecord.StreamName)
	assert.Equal(t, "user-42", *fake.putRecord.PartitionKey)
}

func TestPutRecords(t *testing.T) {
	fake := &fakeKinesis{}
	client := New(logrus.New(), fake, "events")

	_, err := client.PutRecords(context.Background(), make([]Record, MaxRecordsPerRequest+1), "")
	assert.Equal(t, ErrTooManyRecords, err)

	_, err = client.PutRecords(context.Background(), []Record{
		{Data: []byte("a"), PartitionKey: "k1"},
		{Data: []byte("b")},
	}, "")
	require.NoError(t, err)
	require.Len(t, fake.putRecords.Records, 2)
	assert.Equal(t, "k1", *fake.putRecords.Records[0].PartitionKey)
	assert.NotEmpty(t, *fake.putRecords.Records[1].PartitionKey)
}

func TestListShards(t *testing.T) {
	fake := &fakeKinesis{shardPages: [][]*kinesis.Shard{
		{shard("shardId-0", true), shard("shardId-1", false)},
		{shard("shardId-2", false)},
	}}
	client := New(logrus.New(), fake, "events")

	all, err := client.ListShards(context.Background(), "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := client.ListShards(context.Background(), "", true)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "shardId-1", *open[0].ShardId)
	assert.Equal(t, "shardId-2", *open[1].ShardId)
}

func TestSplitAndMergeShards(t *testing.T) {
	fake := &fakeKinesis{}
	client := New(logrus.New(), fake, "events")

	require.NoError(t, client.SplitShard(context.Background(), "", "shardId-0", "170141183460469231731687303715884105728"))
	assert.Equal(t, "shardId-0", *fake.split.ShardToSplit)

	require.NoError(t, client.MergeShards(context.Background(), "", "shardId-1", "shardId-2"))
	assert.Equal(t, "shardId-1", *fake.merged.ShardToMerge)
	assert.Equal(t, "shardId-2", *fake.merged.AdjacentShardToMerge)
}

func TestListStreams(t *testing.T) {
	client := New(logrus.New(), &fakeKinesis{streams: []string{"events", "audit"}}, "")
	streams, err := client.ListStreams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "audit"}, streams)
}
