/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package coldstore archives evicted, compressed buckets to S3 as an
// append-only mirror (the CLI's --coldstore-bucket flag). It
// never reads buckets back into a CVec; it exists purely to give
// evicted compressed data durability beyond the process lifetime.
package coldstore

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/cenkalti/backoff/v3"
)

// Archiver uploads bucket payloads to a fixed S3 bucket under keys
// derived from the Archiver's prefix and the bucket index.
type Archiver struct {
	s3     *s3.S3
	bucket string
	prefix string
}

// New builds an Archiver against the named S3 bucket, using the
// default AWS session (environment/shared-config credential chain).
// prefix namespaces keys for multiple containers sharing one bucket,
// e.g. "cvec/orders".
func New(bucket, prefix string) (*Archiver, error) {
	sess, err := session.NewSession(&aws.Config{})

	if err != nil {
		return nil, fmt.Errorf("coldstore: create aws session: %w", err)
	}

	return &Archiver{
		s3:     s3.New(sess),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (a *Archiver) key(bucketIdx int) string {
	if a.prefix == "" {
		return fmt.Sprintf("bucket-%08d.bin", bucketIdx)
	}

	return fmt.Sprintf("%s/bucket-%08d.bin", a.prefix, bucketIdx)
}

// Archive uploads payload (a compressed bucket's bytes, as produced by
// CVec.Serialize's per-bucket framing) under a key derived from
// bucketIdx, retrying transient failures with an exponential backoff
// policy.
func (a *Archiver) Archive(bucketIdx int, payload []byte) error {
	op := func() error {
		_, err := a.s3.PutObject(&s3.PutObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(a.key(bucketIdx)),
			Body:   bytes.NewReader(payload),
		})

		return err
	}

	return backoff.Retry(op, backoff.NewExponentialBackOff())
}
