package kinesisprovider

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	k "github.com/remind101/shardtail/interface"
	"golang.org/x/xerrors"
)

// DefaultDescribeStreamLimit is the page size used when DescribeStreamLimit is unset.
const DefaultDescribeStreamLimit = 100

// Provider reads from Amazon Kinesis Data Streams.
type Provider struct {
	Kinesis             kinesisiface.KinesisAPI
	DescribeStreamLimit int64
}

type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	// Overrides the service endpoint, e.g. for localstack.
	Endpoint string
}

func New(api kinesisiface.KinesisAPI) *Provider {
	return &Provider{
		Kinesis:             api,
		DescribeStreamLimit: DefaultDescribeStreamLimit,
	}
}

// NewDefault builds a client from static keys when given, otherwise from the
// default AWS credential chain.
func NewDefault(cfg Config) (*Provider, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""))
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, xerrors.Errorf("failed to create AWS session: %w", err)
	}
	return New(kinesis.New(sess)), nil
}

func (p *Provider) ListShards(ctx context.Context, stream string) ([]k.Shard, error) {
	limit := p.DescribeStreamLimit
	if limit <= 0 {
		limit = DefaultDescribeStreamLimit
	}
	shards := make([]k.Shard, 0)
	var derr error
	err := p.Kinesis.DescribeStreamPagesWithContext(ctx, &kinesis.DescribeStreamInput{
		Limit:      aws.Int64(limit),
		StreamName: aws.String(stream),
	}, func(desc *kinesis.DescribeStreamOutput, _ bool) bool {
		if desc == nil || desc.StreamDescription == nil {
			derr = k.NewError(k.ECrit, k.ErrProviderUnavailable, "Stream could not be described", nil)
			return false
		}
		if aws.StringValue(desc.StreamDescription.StreamStatus) == kinesis.StreamStatusDeleting {
			derr = k.NewError(k.ECrit, k.ErrNotFound, "Stream is being deleted", nil)
			return false
		}
		for _, s := range desc.StreamDescription.Shards {
			shards = append(shards, toShard(s))
		}
		return true
	})
	if err != nil {
		return nil, classify(err, "DescribeStream "+stream, k.ErrProviderUnavailable)
	}
	if derr != nil {
		return nil, derr
	}
	return shards, nil
}

func (p *Provider) GetIteratorAfter(ctx context.Context, stream string, shard k.Shard, position string) (string, error) {
	return p.getShardIterator(ctx, stream, shard, kinesis.ShardIteratorTypeAfterSequenceNumber, aws.String(position))
}

func (p *Provider) GetIteratorAtLatest(ctx context.Context, stream string, shard k.Shard) (string, error) {
	return p.getShardIterator(ctx, stream, shard, kinesis.ShardIteratorTypeLatest, nil)
}

func (p *Provider) getShardIterator(ctx context.Context, stream string, shard k.Shard, iteratorType string,
	sequence *string) (string, error) {
	iter, err := p.Kinesis.GetShardIteratorWithContext(ctx, &kinesis.GetShardIteratorInput{
		ShardId:                aws.String(shard.ID),
		ShardIteratorType:      aws.String(iteratorType),
		StartingSequenceNumber: sequence,
		StreamName:             aws.String(stream),
	})
	if err != nil {
		invalid := k.ErrProviderUnavailable
		if sequence != nil {
			invalid = k.ErrInvalidPosition
		}
		return "", classify(err, "GetShardIterator "+iteratorType, invalid)
	}
	it := aws.StringValue(iter.ShardIterator)
	if it == "" {
		return "", k.NewError(k.ECrit, k.ErrProviderUnavailable, "Failed to get the shard iterator", nil)
	}
	return it, nil
}

func (p *Provider) Pull(ctx context.Context, cursor string, limit int64) (*k.Batch, error) {
	resp, err := p.Kinesis.GetRecordsWithContext(ctx, &kinesis.GetRecordsInput{
		Limit:         aws.Int64(limit),
		ShardIterator: aws.String(cursor),
	})
	if err != nil {
		return nil, classify(err, "GetRecords", k.ErrProviderUnavailable)
	}
	batch := &k.Batch{
		Records:            make([]*k.Record, 0, len(resp.Records)),
		NextCursor:         aws.StringValue(resp.NextShardIterator),
		MillisBehindLatest: aws.Int64Value(resp.MillisBehindLatest),
	}
	for _, rec := range resp.Records {
		batch.Records = append(batch.Records, &k.Record{
			SequenceNumber: aws.StringValue(rec.SequenceNumber),
			PartitionKey:   aws.StringValue(rec.PartitionKey),
			Data:           rec.Data,
			ArrivedAt:      aws.TimeValue(rec.ApproximateArrivalTimestamp),
		})
	}
	return batch, nil
}

func toShard(s *kinesis.Shard) k.Shard {
	shard := k.Shard{
		ID:       aws.StringValue(s.ShardId),
		ParentID: aws.StringValue(s.ParentShardId),
	}
	if s.HashKeyRange != nil {
		shard.StartingHashKey = aws.StringValue(s.HashKeyRange.StartingHashKey)
		shard.EndingHashKey = aws.StringValue(s.HashKeyRange.EndingHashKey)
	}
	if s.SequenceNumberRange != nil {
		shard.StartingSequenceNumber = aws.StringValue(s.SequenceNumberRange.StartingSequenceNumber)
		shard.EndingSequenceNumber = aws.StringValue(s.SequenceNumberRange.EndingSequenceNumber)
	}
	return shard
}

// classify maps AWS error codes onto the consumer's error kinds. invalid is
// the kind used for InvalidArgumentException.
func classify(err error, op string, invalid error) error {
	kind := k.ErrProviderUnavailable
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case kinesis.ErrCodeResourceNotFoundException:
			kind = k.ErrNotFound
		case kinesis.ErrCodeInvalidArgumentException:
			kind = invalid
		}
	}
	return k.NewError(k.ECrit, kind, op+" failed", err)
}
