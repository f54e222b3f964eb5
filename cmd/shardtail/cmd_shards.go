package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	k "github.com/remind101/shardtail/interface"
	"github.com/urfave/cli"
)

var cmdShards = cli.Command{
	Name:    "shards",
	Aliases: []string{"sh"},
	Usage:   "Gets the shards of a stream and their hash key ranges",
	Action:  runShards,
	Flags:   concatFlags(flagsStream, flagsAws),
}

type nums []*big.Int

func (n nums) Len() int {
	return len(n)
}

func (n nums) Swap(i, j int) {
	n[i], n[j] = n[j], n[i]
}

func (n nums) Less(i, j int) bool {
	return n[i].Cmp(n[j]) < 0
}

func (n *nums) UniqSort() {
	sort.Sort(n)

	tmp := make(nums, 0)
	for _, key := range *n {
		if len(tmp) == 0 || tmp[len(tmp)-1].Cmp(key) != 0 {
			tmp = append(tmp, key)
		}
	}

	*n = tmp
}

func runShards(ctx *cli.Context) error {
	stream, err := getStream(ctx)
	if err != nil {
		return err
	}
	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}
	shards, err := provider.ListShards(context.Background(), stream)
	if err != nil {
		return err
	}
	if len(shards) == 0 {
		fmt.Printf("No shards found on stream %s\n", stream)
		return nil
	}
	printShards(os.Stdout, shards)
	return nil
}

// hashRange parses the inclusive range of a shard as [begin, end).
func hashRange(s k.Shard) (*big.Int, *big.Int, bool) {
	begin, ok := new(big.Int).SetString(s.StartingHashKey, 10)
	if !ok {
		return nil, nil, false
	}
	end, ok := new(big.Int).SetString(s.EndingHashKey, 10)
	if !ok {
		return nil, nil, false
	}
	return begin, end.Add(end, big.NewInt(1)), true
}

// printShards writes the shard table followed by a map of the hash key ranges,
// where the first shard listed is the one tail reads.
func printShards(w io.Writer, shards []k.Shard) {
	t := newTable("shard id", "parent", "first sequence", "last sequence")
	for _, s := range shards {
		last := s.EndingSequenceNumber
		if last == "" {
			last = "open"
		}
		t.add(s.ID, s.ParentID, s.StartingSequenceNumber, last)
	}
	t.write(w)

	keys := make(nums, 0)
	for _, s := range shards {
		if begin, end, ok := hashRange(s); ok {
			keys = append(keys, begin, end)
		}
	}
	if len(keys) == 0 {
		return
	}
	keys.UniqSort()

	idLen := len("SHARD ID")
	for _, s := range shards {
		if idLen < len(s.ID) {
			idLen = len(s.ID)
		}
	}

	fmt.Fprintf(w, "\n%s%s  ", "SHARD ID", strings.Repeat(" ", idLen-len("SHARD ID")))
	for i := range keys {
		fmt.Fprintf(w, "%-3d", i)
	}
	fmt.Fprintln(w)

	for _, s := range shards {
		begin, end, ok := hashRange(s)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s%s  ", s.ID, strings.Repeat(" ", idLen-len(s.ID)))
		for _, key := range keys {
			if key.Cmp(begin) < 0 {
				fmt.Fprint(w, "   ")
				continue
			}
			if key.Cmp(end) < 0 {
				fmt.Fprint(w, "o--")
			} else {
				fmt.Fprint(w, "o")
				break
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nHash keys:\n")
	for i, key := range keys {
		fmt.Fprintf(w, "%d: %s\n", i, key.String())
	}
}
