package memoryprovider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	k "github.com/remind101/shardtail/interface"
)

// Provider is an in-process sharded log. Sequence numbers are zero-padded
// decimal strings, so they order the same as text and as numbers.
type Provider struct {
	mut     sync.Mutex
	streams map[string]*stream
	next    uint64
	now     func() time.Time
}

type stream struct {
	shards []*shard
}

type shard struct {
	id      string
	records []*k.Record
	// Number of records dropped from the front by Trim.
	trimmed int
	closed  bool
}

func New() *Provider {
	return &Provider{
		streams: make(map[string]*stream),
		next:    1,
		now:     time.Now,
	}
}

// CreateStream adds a stream with the given shards, or replaces it.
func (p *Provider) CreateStream(name string, shardIDs ...string) {
	p.mut.Lock()
	defer p.mut.Unlock()
	s := &stream{}
	for _, id := range shardIDs {
		s.shards = append(s.shards, &shard{id: id})
	}
	p.streams[name] = s
}

// Put appends a record to a shard and returns its sequence number.
func (p *Provider) Put(streamName, shardID, partitionKey string, data []byte) (string, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	sh, err := p.shard(streamName, shardID)
	if err != nil {
		return "", err
	}
	if sh.closed {
		return "", k.NewError(k.EError, k.ErrShardClosed, "Shard "+shardID+" is closed", nil)
	}
	seq := fmt.Sprintf("%020d", p.next)
	p.next++
	sh.records = append(sh.records, &k.Record{
		SequenceNumber: seq,
		PartitionKey:   partitionKey,
		Data:           data,
		ArrivedAt:      p.now(),
	})
	return seq, nil
}

// CloseShard stops a shard from accepting records. Readers get an empty next
// cursor once they have read everything in it.
func (p *Provider) CloseShard(streamName, shardID string) error {
	p.mut.Lock()
	defer p.mut.Unlock()
	sh, err := p.shard(streamName, shardID)
	if err != nil {
		return err
	}
	sh.closed = true
	return nil
}

// Trim drops the oldest n records of a shard, as retention would.
func (p *Provider) Trim(streamName, shardID string, n int) error {
	p.mut.Lock()
	defer p.mut.Unlock()
	sh, err := p.shard(streamName, shardID)
	if err != nil {
		return err
	}
	if n > len(sh.records) {
		n = len(sh.records)
	}
	sh.records = sh.records[n:]
	sh.trimmed += n
	return nil
}

func (p *Provider) ListShards(_ context.Context, streamName string) ([]k.Shard, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	s, ok := p.streams[streamName]
	if !ok {
		return nil, k.NewError(k.ECrit, k.ErrNotFound, "Stream "+streamName+" not found", nil)
	}
	shards := make([]k.Shard, 0, len(s.shards))
	for _, sh := range s.shards {
		shard := k.Shard{ID: sh.id}
		if len(sh.records) > 0 {
			shard.StartingSequenceNumber = sh.records[0].SequenceNumber
			if sh.closed {
				shard.EndingSequenceNumber = sh.records[len(sh.records)-1].SequenceNumber
			}
		}
		shards = append(shards, shard)
	}
	return shards, nil
}

func (p *Provider) GetIteratorAfter(_ context.Context, streamName string, shard k.Shard, position string) (string, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	sh, err := p.shard(streamName, shard.ID)
	if err != nil {
		return "", err
	}
	for i, rec := range sh.records {
		if rec.SequenceNumber == position {
			return cursor(streamName, shard.ID, sh.trimmed+i+1), nil
		}
	}
	return "", k.NewError(k.ECrit, k.ErrInvalidPosition, "Sequence number "+position+" is not in shard "+shard.ID, nil)
}

func (p *Provider) GetIteratorAtLatest(_ context.Context, streamName string, shard k.Shard) (string, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	sh, err := p.shard(streamName, shard.ID)
	if err != nil {
		return "", err
	}
	return cursor(streamName, shard.ID, sh.trimmed+len(sh.records)), nil
}

func (p *Provider) Pull(_ context.Context, c string, limit int64) (*k.Batch, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	streamName, shardID, offset, err := parseCursor(c)
	if err != nil {
		return nil, err
	}
	sh, err := p.shard(streamName, shardID)
	if err != nil {
		return nil, err
	}
	i := offset - sh.trimmed
	if i < 0 {
		return nil, k.NewError(k.ECrit, k.ErrInvalidPosition, "Cursor points at trimmed records", nil)
	}
	if i > len(sh.records) {
		i = len(sh.records)
	}
	end := i + int(limit)
	if limit <= 0 || end > len(sh.records) {
		end = len(sh.records)
	}

	batch := &k.Batch{
		Records:    append([]*k.Record(nil), sh.records[i:end]...),
		NextCursor: cursor(streamName, shardID, sh.trimmed+end),
	}
	if end < len(sh.records) {
		lag := p.now().Sub(sh.records[end].ArrivedAt).Milliseconds()
		if lag < 1 {
			lag = 1
		}
		batch.MillisBehindLatest = lag
	} else if sh.closed {
		batch.NextCursor = ""
	}
	return batch, nil
}

func (p *Provider) shard(streamName, shardID string) (*shard, error) {
	s, ok := p.streams[streamName]
	if !ok {
		return nil, k.NewError(k.ECrit, k.ErrNotFound, "Stream "+streamName+" not found", nil)
	}
	for _, sh := range s.shards {
		if sh.id == shardID {
			return sh, nil
		}
	}
	return nil, k.NewError(k.ECrit, k.ErrShardNotFound, "Shard "+shardID+" not found", nil)
}

func cursor(streamName, shardID string, offset int) string {
	return streamName + "|" + shardID + "|" + strconv.Itoa(offset)
}

func parseCursor(c string) (string, string, int, error) {
	parts := strings.Split(c, "|")
	if len(parts) != 3 {
		return "", "", 0, k.NewError(k.ECrit, k.ErrProviderUnavailable, "Malformed cursor "+c, nil)
	}
	offset, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", "", 0, k.NewError(k.ECrit, k.ErrProviderUnavailable, "Malformed cursor "+c, err)
	}
	return parts[0], parts[1], offset, nil
}
