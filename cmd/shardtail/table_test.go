package main

import (
	"bytes"
	"context"
	"flag"
	"testing"

	memorycheckpointer "github.com/remind101/shardtail/checkpointers/memory"
	k "github.com/remind101/shardtail/interface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestTable(t *testing.T) {
	tbl := newTable("name", "value")
	tbl.add("a", "1")
	tbl.add("longer", "")

	var buf bytes.Buffer
	tbl.write(&buf)
	assert.Equal(t, "NAME    VALUE\na       1\nlonger  -\n", buf.String())
}

func TestPrintShards(t *testing.T) {
	shards := []k.Shard{
		{ID: "shardId-0", StartingHashKey: "0", EndingHashKey: "99", StartingSequenceNumber: "1"},
		{ID: "shardId-1", ParentID: "shardId-0", StartingHashKey: "100", EndingHashKey: "199", StartingSequenceNumber: "5", EndingSequenceNumber: "9"},
	}
	var buf bytes.Buffer
	printShards(&buf, shards)

	out := buf.String()
	assert.Contains(t, out, "SHARD ID   PARENT     FIRST SEQUENCE  LAST SEQUENCE")
	assert.Contains(t, out, "shardId-0  -          1               open")
	assert.Contains(t, out, "shardId-1  shardId-0  5               9")
	assert.Contains(t, out, "shardId-0  o--o\n")
	assert.Contains(t, out, "shardId-1     o--o\n")
	assert.Contains(t, out, "Hash keys:\n0: 0\n1: 100\n2: 200\n")
}

func TestPrintStatus(t *testing.T) {
	cp := &checkpoint{Checkpointer: memorycheckpointer.New(""), backend: "memory", location: "-"}

	var buf bytes.Buffer
	require.NoError(t, printStatus(context.Background(), &buf, "contacts", cp))
	assert.Contains(t, buf.String(), "contacts  memory      -         -")

	require.NoError(t, cp.Save(context.Background(), "42"))
	buf.Reset()
	require.NoError(t, printStatus(context.Background(), &buf, "contacts", cp))
	assert.Contains(t, buf.String(), "contacts  memory      -         42")
}

func TestReset(t *testing.T) {
	mem := memorycheckpointer.New("42")
	require.NoError(t, reset(context.Background(), &checkpoint{Checkpointer: mem, backend: "memory"}))
	_, ok, _ := mem.Load(context.Background())
	assert.False(t, ok)
}

func checkpointContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flagsCheckpoint {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestNewCheckpointer(t *testing.T) {
	path := t.TempDir() + "/position.txt"
	cp, err := newCheckpointer(checkpointContext(t, "--checkpoint", "file", "--checkpoint.file", path), "contacts")
	require.NoError(t, err)
	defer cp.close()
	assert.Equal(t, path, cp.location)

	require.NoError(t, cp.Save(context.Background(), "7"))
	require.NoError(t, reset(context.Background(), cp))
	_, ok, err := cp.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	cp, err = newCheckpointer(checkpointContext(t, "--checkpoint", "none"), "contacts")
	require.NoError(t, err)
	assert.Error(t, reset(context.Background(), cp))

	_, err = newCheckpointer(checkpointContext(t, "--checkpoint", "carrier-pigeon"), "contacts")
	assert.Error(t, err)

	_, err = newCheckpointer(checkpointContext(t, "--checkpoint", "postgres", "--postgres.url", ""), "contacts")
	assert.Error(t, err)
}
