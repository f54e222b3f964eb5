package kinesisprovider

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	"github.com/stretchr/testify/mock"
)

// KinesisAPIMock implements the calls the provider makes; anything else
// panics through the nil embedded interface.
type KinesisAPIMock struct {
	kinesisiface.KinesisAPI
	mock.Mock

	// Pages handed to the DescribeStreamPages callback.
	Pages []*kinesis.DescribeStreamOutput
}

func (m *KinesisAPIMock) DescribeStreamPagesWithContext(_a0 aws.Context, _a1 *kinesis.DescribeStreamInput,
	_a2 func(*kinesis.DescribeStreamOutput, bool) bool, _ ...request.Option) error {
	ret := m.Called(_a1)

	for i, page := range m.Pages {
		if !_a2(page, i == len(m.Pages)-1) {
			break
		}
	}
	r0 := ret.Error(0)

	return r0
}

func (m *KinesisAPIMock) GetShardIteratorWithContext(_a0 aws.Context, _a1 *kinesis.GetShardIteratorInput,
	_ ...request.Option) (*kinesis.GetShardIteratorOutput, error) {
	ret := m.Called(_a1)

	var r0 *kinesis.GetShardIteratorOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*kinesis.GetShardIteratorOutput)
	}
	r1 := ret.Error(1)

	return r0, r1
}

func (m *KinesisAPIMock) GetRecordsWithContext(_a0 aws.Context, _a1 *kinesis.GetRecordsInput,
	_ ...request.Option) (*kinesis.GetRecordsOutput, error) {
	ret := m.Called(_a1)

	var r0 *kinesis.GetRecordsOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*kinesis.GetRecordsOutput)
	}
	r1 := ret.Error(1)

	return r0, r1
}

func shardPage(status string, ids ...string) *kinesis.DescribeStreamOutput {
	shards := make([]*kinesis.Shard, 0, len(ids))
	for i, id := range ids {
		shards = append(shards, &kinesis.Shard{
			HashKeyRange: &kinesis.HashKeyRange{
				StartingHashKey: aws.String("0"),
				EndingHashKey:   aws.String("7f"),
			},
			SequenceNumberRange: &kinesis.SequenceNumberRange{
				StartingSequenceNumber: aws.String(string(rune('1' + i))),
			},
			ShardId: aws.String(id),
		})
	}
	return &kinesis.DescribeStreamOutput{
		StreamDescription: &kinesis.StreamDescription{
			HasMoreShards: aws.Bool(true),
			Shards:        shards,
			StreamName:    aws.String("TestStream"),
			StreamStatus:  aws.String(status),
		},
	}
}
