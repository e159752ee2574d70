package checkers

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// BucketHeader это часть *s3.Client, нужная проверке.
type BucketHeader interface {
	HeadBucket(ctx context.Context, in *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
}

type S3Checker struct {
	client BucketHeader
	bucket string
}

func NewS3Checker(client BucketHeader, bucket string) *S3Checker {
	return &S3Checker{client: client, bucket: bucket}
}

func (c *S3Checker) Name() string { return "s3" }

func (c *S3Checker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err := c.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	return err
}
