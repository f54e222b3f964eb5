package ctr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
	"AWSAccountId": "123456789012",
	"AWSContactTraceRecordFormatVersion": "2017-03-10",
	"Agent": {
		"ARN": "arn:aws:connect:us-east-1:123456789012:instance/abc/agent/def",
		"AfterContactWorkDuration": 12,
		"AgentInteractionDuration": 95,
		"CustomerHoldDuration": 0,
		"NumberOfHolds": 0,
		"Username": "taro"
	},
	"AgentConnectionAttempts": 1,
	"Channel": "VOICE",
	"ContactId": "a1b2c3",
	"InitiationMethod": "INBOUND",
	"Queue": {
		"ARN": "arn:aws:connect:us-east-1:123456789012:instance/abc/queue/ghi",
		"Duration": 8,
		"Name": "BasicQueue"
	},
	"Attributes": {"ignored": "yes"}
}`

func TestDecodeSample(t *testing.T) {
	rec, err := Decoder().Decode([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "a1b2c3", rec.ContactId)
	assert.Equal(t, "VOICE", rec.Channel)
	assert.Equal(t, 1, rec.AgentConnectionAttempts)
	require.NotNil(t, rec.Agent)
	assert.Equal(t, "taro", rec.Agent.Username)
	assert.Equal(t, 95, rec.Agent.AgentInteractionDuration)
	require.NotNil(t, rec.Queue)
	assert.Equal(t, "BasicQueue", rec.Queue.Name)
}

func TestDecodeWithoutAgent(t *testing.T) {
	rec, err := Decoder().Decode([]byte(`{"ContactId":"x","Agent":null}`))
	require.NoError(t, err)
	assert.Nil(t, rec.Agent)
	assert.Nil(t, rec.Queue)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decoder().Decode([]byte(`{"ContactId":`))
	assert.Error(t, err)

	_, err = Decoder().Decode([]byte(`{"AgentConnectionAttempts":"one"}`))
	assert.Error(t, err)
}
