package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/server/credentials"
	"github.com/dmitrijs2005/filereview/internal/server/models"
	"github.com/dmitrijs2005/filereview/internal/server/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueFilenames(t *testing.T) {
	tests := []struct {
		in, want []string
	}{
		{nil, []string{}},
		{[]string{"a.csv"}, []string{"a.csv"}},
		{[]string{"a.csv", "b.xlsx", "a.csv", "c.txt", "b.xlsx"}, []string{"a.csv", "b.xlsx", "c.txt"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UniqueFilenames(tt.in))
	}
}

func TestIngestListDownload_RoundTrip(t *testing.T) {
	env := newTestEnv(t, credentials.Plaintext{}, nil)
	ctx := context.Background()

	u, err := env.users.Create(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)

	data := []byte{0x00, 0xff, 'a', ',', 'b', '\n'}
	rec, err := env.uploads.Ingest(ctx, "bob", models.Upload{Name: "raw.txt", Data: data})
	require.NoError(t, err)
	assert.Equal(t, u.ID, rec.UserID)

	names, err := env.retrieval.ListFiles(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, names, "raw.txt")

	p, err := env.retrieval.Download(ctx, "bob", "raw.txt")
	require.NoError(t, err)
	assert.Equal(t, data, p.Data)
	assert.Equal(t, "application/octet-stream", p.ContentType)
	assert.Equal(t, "raw.txt", p.Filename)
}

func TestDownload_Missing(t *testing.T) {
	env := newTestEnv(t, credentials.Plaintext{}, nil)

	_, err := env.retrieval.Download(context.Background(), "bob", "none.csv")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.retrieval.Download(context.Background(), "bob", "../../etc/passwd")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestPreview_Stored(t *testing.T) {
	env := newTestEnv(t, credentials.Plaintext{}, nil)
	ctx := context.Background()

	_, err := env.users.Create(ctx, "bob", "bob@x.com", "pw")
	require.NoError(t, err)
	require.NoError(t, env.blobs.Write(ctx, "bob", "cities.csv", []byte("city\nK\xf6ln\n")))
	require.NoError(t, env.blobs.Write(ctx, "bob", "broken.csv", []byte("a,b\n1,2,3\n")))

	tbl, err := env.retrieval.Preview(ctx, "bob", "cities.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Köln"}}, tbl.Rows)

	_, err = env.retrieval.Preview(ctx, "bob", "broken.csv")
	assert.ErrorIs(t, err, common.ErrParseFailure)

	_, err = env.retrieval.Preview(ctx, "bob", "missing.csv")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.retrieval.Preview(ctx, "bob", "image.png")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestPreviewUpload_UsesContentType(t *testing.T) {
	env := newTestEnv(t, credentials.Plaintext{}, nil)

	tbl, err := env.retrieval.PreviewUpload(models.Upload{Name: "blob", ContentType: "text/csv", Data: []byte("a;b,c\n1;2,3\n")})
	require.NoError(t, err)
	assert.Equal(t, preview.KindCSV, tbl.Kind)
	assert.Equal(t, []string{"a;b", "c"}, tbl.Columns)

	_, err = env.retrieval.PreviewUpload(models.Upload{Name: "blob", ContentType: "application/zip", Data: []byte("PK")})
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestAliceScenario(t *testing.T) {
	env := newTestEnv(t, credentials.Plaintext{}, nil)
	ctx := context.Background()

	_, err := env.users.SignUp(ctx, SignUpRequest{
		Username: "alice", Email: "alice@x.com", Password: "pw123", ConfirmPassword: "pw123",
	})
	require.NoError(t, err)

	user, err := env.users.Authenticate(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)

	_, err = env.users.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	data := []byte("a,b\n1,2\n")
	_, err = env.uploads.Ingest(ctx, "alice", models.Upload{Name: "report.csv", ContentType: "text/csv", Data: data})
	require.NoError(t, err)

	names, err := env.retrieval.ListFiles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"report.csv"}, names)

	p, err := env.retrieval.Download(ctx, "alice", "report.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(p.Data))
}

// Alice uploads report.csv twice with different bytes, then lists,
// previews and downloads it.
func TestAliceScenario_Reupload(t *testing.T) {
	env := newTestEnv(t, credentials.Plaintext{}, nil)
	ctx := context.Background()

	_, err := env.users.SignUp(ctx, SignUpRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cret", ConfirmPassword: "s3cret",
	})
	require.NoError(t, err)

	user, err := env.users.Authenticate(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	first := []byte("name,score\nann,1\n")
	second := []byte("name,score\nann,1\nbob,2\n")

	_, err = env.uploads.Ingest(ctx, "alice", models.Upload{Name: "report.csv", ContentType: "text/csv", Data: first})
	require.NoError(t, err)
	_, err = env.uploads.Ingest(ctx, "alice", models.Upload{Name: "report.csv", ContentType: "text/csv", Data: second})
	require.NoError(t, err)

	names, err := env.retrieval.ListFiles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"report.csv", "report.csv"}, names)
	assert.Equal(t, []string{"report.csv"}, UniqueFilenames(names))

	tbl, err := env.retrieval.Preview(ctx, "alice", "report.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, tbl.Columns)
	assert.Equal(t, [][]string{{"ann", "1"}, {"bob", "2"}}, tbl.Rows)

	p, err := env.retrieval.Download(ctx, "alice", "report.csv")
	require.NoError(t, err)
	assert.Equal(t, second, p.Data)
}
