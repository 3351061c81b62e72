package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	pages   [][]string
	getErr  error
	listErr error

	gotBucket string
	listCalls int
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotBucket = aws.ToString(in.Bucket)
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	idx := f.listCalls
	f.listCalls++

	out := &s3.ListObjectsV2Output{Prefix: in.Prefix}
	for _, k := range f.pages[idx] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if idx < len(f.pages)-1 {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("page-" + string(rune('a'+idx)))
	} else {
		out.IsTruncated = aws.Bool(false)
	}
	return out, nil
}

func TestS3Store_GetData(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"prefix/stock.csv": "2020-01-01,10,15,9,12,1000\n",
	}}
	store := NewS3Store(fake, "dagster")

	rows, err := store.GetData(context.Background(), "prefix/stock.csv")
	require.NoError(t, err)
	assert.Equal(t, "dagster", fake.gotBucket)
	assert.Equal(t, [][]string{{"2020-01-01", "10", "15", "9", "12", "1000"}}, rows)

	_, err = store.GetData(context.Background(), "prefix/missing.csv")
	require.Error(t, err)
	var nsk *types.NoSuchKey
	assert.True(t, errors.As(err, &nsk))
	assert.Contains(t, err.Error(), "s3://dagster/prefix/missing.csv")
}

func TestS3Store_ListKeysPaginates(t *testing.T) {
	fake := &fakeS3{pages: [][]string{
		{"prefix/a.csv", "prefix/b.csv"},
		{"prefix/c.csv"},
	}}
	store := NewS3Store(fake, "dagster")

	keys, err := store.ListKeys(context.Background(), "prefix")
	require.NoError(t, err)
	assert.Equal(t, []string{"prefix/a.csv", "prefix/b.csv", "prefix/c.csv"}, keys)
	assert.Equal(t, 2, fake.listCalls)
}

func TestS3Store_ListKeysError(t *testing.T) {
	fake := &fakeS3{listErr: errors.New("endpoint unreachable")}
	store := NewS3Store(fake, "dagster")

	_, err := store.ListKeys(context.Background(), "prefix")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint unreachable")
}
