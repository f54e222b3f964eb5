package main

import (
	"errors"

	"github.com/gomodule/redigo/redis"
	"github.com/remind101/shardtail/redispool"
	"github.com/urfave/cli"
)

var (
	fRedisURL    = "redis.url"
	fRedisPrefix = "redis.prefix"
)

var flagsRedis = []cli.Flag{
	cli.StringFlag{
		Name:   fRedisURL,
		Usage:  "The Redis URL",
		EnvVar: "REDIS_URL",
	},
	cli.StringFlag{
		Name:   fRedisPrefix,
		Value:  "shardtail",
		Usage:  "Prefix of every redis key",
		EnvVar: "REDIS_PREFIX",
	},
}

func getRedisPool(ctx *cli.Context) (*redis.Pool, error) {
	url := ctx.String(fRedisURL)
	if url == "" {
		return nil, errors.New("a redis URL is required (--redis.url)")
	}
	return redispool.NewRedisPool(url)
}
