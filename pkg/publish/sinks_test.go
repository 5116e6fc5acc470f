package publish

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	require.NoError(t, Persist(ctx, siteFiles(), sink))

	data, err := sink.ReadFile("blog/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Blog</h1>", string(data))

	files, err := sink.Files()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index.html", "blog/index.html", "blog/old.html", "sitemap.xml"}, files)

	// Rewriting replaces content.
	require.NoError(t, sink.Write(ctx, "index.html", []byte("v2")))
	data, err = sink.ReadFile("index.html")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, sink.Clean())
	files, err = sink.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	sink, err := NewDirSink(dir)
	require.NoError(t, err)

	require.NoError(t, Persist(context.Background(), siteFiles(), sink))

	data, err := os.ReadFile(filepath.Join(dir, "blog", "old.html"))
	require.NoError(t, err)
	assert.Equal(t, "redirect", string(data))

	info, err := os.Stat(filepath.Join(dir, "blog", "old.html"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), "pages must be world-readable")

	entries, err := os.ReadDir(filepath.Join(dir, "blog"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")

	require.NoError(t, sink.Clean())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFilesystemSinkRejectsEscape(t *testing.T) {
	sink := NewMemorySink()
	err := sink.Write(context.Background(), "../outside.html", []byte("x"))
	assert.Error(t, err)
}

type fakeS3 struct {
	mu     sync.Mutex
	inputs map[string]*s3.PutObjectInput
	bodies map[string]string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	f.inputs[key] = in
	f.bodies[key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{inputs: map[string]*s3.PutObjectInput{}, bodies: map[string]string{}}
	sink := NewS3Sink(client, "my-site", "www/")

	require.NoError(t, Persist(context.Background(), siteFiles(), sink, WithConcurrency(4)))

	require.Len(t, client.inputs, 4)
	in := client.inputs["www/blog/index.html"]
	require.NotNil(t, in)
	assert.Equal(t, "my-site", aws.ToString(in.Bucket))
	assert.Equal(t, "text/html; charset=utf-8", aws.ToString(in.ContentType))
	assert.Equal(t, int64(13), aws.ToInt64(in.ContentLength))
	assert.Equal(t, "<h1>Blog</h1>", client.bodies["www/blog/index.html"])
	assert.Contains(t, aws.ToString(client.inputs["www/sitemap.xml"].ContentType), "xml")
}

func TestS3SinkError(t *testing.T) {
	denied := errors.New("AccessDenied")
	sink := NewS3Sink(&fakeS3{err: denied}, "b", "")

	err := sink.Write(context.Background(), "index.html", []byte("x"))
	assert.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), "index.html")
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(S3Options{Region: "eu-west-1", Endpoint: "http://localhost:9000", PathStyle: true})
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3ClientCredentialsFromEnv(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")

	client, err := NewS3Client(S3Options{})
	require.NoError(t, err)

	creds, err := client.Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
}

func TestSQLiteArchiveSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.sqlar")
	sink, err := OpenSQLiteArchive(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Persist(ctx, siteFiles(), sink, WithConcurrency(4)))
	require.NoError(t, sink.Write(ctx, "index.html", []byte("v2")))

	data, err := sink.ReadFile(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	require.NoError(t, sink.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlar`).Scan(&count))
	assert.Equal(t, 4, count)

	var mode, sz int
	require.NoError(t, db.QueryRow(`SELECT mode, sz FROM sqlar WHERE name = 'blog/index.html'`).Scan(&mode, &sz))
	assert.Equal(t, 0o100644, mode)
	assert.Equal(t, 13, sz)
}
