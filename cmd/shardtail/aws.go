package main

import (
	kinesisprovider "github.com/remind101/shardtail/providers/kinesis"
	"github.com/urfave/cli"
)

var (
	fAWSRegion   = "aws.region"
	fAWSAccess   = "aws.accesskey"
	fAWSSecret   = "aws.secretkey"
	fAWSEndpoint = "aws.endpoint"
)

var flagsAws = []cli.Flag{
	cli.StringFlag{
		Name:   fAWSRegion,
		Value:  "us-east-1",
		Usage:  "The AWS Kinesis region",
		EnvVar: "AWS_REGION",
	},
	cli.StringFlag{
		Name:   fAWSAccess,
		Usage:  "The AWS access key, the default credential chain is used when empty",
		EnvVar: "AWS_ACCESS_KEY_ID",
	},
	cli.StringFlag{
		Name:   fAWSSecret,
		Usage:  "The AWS secret key",
		EnvVar: "AWS_SECRET_ACCESS_KEY",
	},
	cli.StringFlag{
		Name:   fAWSEndpoint,
		Usage:  "Overrides the Kinesis endpoint, e.g. http://localhost:4566",
		EnvVar: "AWS_KINESIS_ENDPOINT",
	},
}

func newProvider(ctx *cli.Context) (*kinesisprovider.Provider, error) {
	return kinesisprovider.NewDefault(kinesisprovider.Config{
		Region:    ctx.String(fAWSRegion),
		AccessKey: ctx.String(fAWSAccess),
		SecretKey: ctx.String(fAWSSecret),
		Endpoint:  ctx.String(fAWSEndpoint),
	})
}
