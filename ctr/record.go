// Package ctr holds the Amazon Connect Contact Trace Record schema. The field
// set is a sample; producers may send more, which decoding ignores.
package ctr

import (
	shardtail "github.com/remind101/shardtail"
)

type ContactTraceRecord struct {
	AWSAccountId                       string `json:"AWSAccountId"`
	AWSContactTraceRecordFormatVersion string `json:"AWSContactTraceRecordFormatVersion"`
	Agent                              *Agent `json:"Agent"`
	AgentConnectionAttempts            int    `json:"AgentConnectionAttempts"`
	Channel                            string `json:"Channel"`
	ConnectedToSystemTimestamp         string `json:"ConnectedToSystemTimestamp"`
	ContactId                          string `json:"ContactId"`
	DisconnectReason                   string `json:"DisconnectReason"`
	DisconnectTimestamp                string `json:"DisconnectTimestamp"`
	InitiationMethod                   string `json:"InitiationMethod"`
	InitiationTimestamp                string `json:"InitiationTimestamp"`
	InstanceARN                        string `json:"InstanceARN"`
	LastUpdateTimestamp                string `json:"LastUpdateTimestamp"`
	Queue                              *Queue `json:"Queue"`
}

// Agent is nil for contacts that never reached an agent.
type Agent struct {
	ARN                            string `json:"ARN"`
	AfterContactWorkDuration       int    `json:"AfterContactWorkDuration"`
	AfterContactWorkEndTimestamp   string `json:"AfterContactWorkEndTimestamp"`
	AfterContactWorkStartTimestamp string `json:"AfterContactWorkStartTimestamp"`
	AgentInteractionDuration       int    `json:"AgentInteractionDuration"`
	ConnectedToAgentTimestamp      string `json:"ConnectedToAgentTimestamp"`
	CustomerHoldDuration           int    `json:"CustomerHoldDuration"`
	LongestHoldDuration            int    `json:"LongestHoldDuration"`
	NumberOfHolds                  int    `json:"NumberOfHolds"`
	Username                       string `json:"Username"`
}

type Queue struct {
	ARN              string `json:"ARN"`
	DequeueTimestamp string `json:"DequeueTimestamp"`
	Duration         int    `json:"Duration"`
	EnqueueTimestamp string `json:"EnqueueTimestamp"`
	Name             string `json:"Name"`
}

// Decoder decodes JSON payloads into records.
func Decoder() shardtail.Decoder[*ContactTraceRecord] {
	return shardtail.JSONDecoder[*ContactTraceRecord]()
}
