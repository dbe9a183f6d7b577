package template

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/system"
)

func TestCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog(system.NewTestLogger())

	tests := []struct {
		name    string
		subject string
		want    string
	}{
		{
			name:    "exact subject",
			subject: "New AWS IAM Access Key Pair Created",
			want:    "IAM Auto Key Rotation Enforcement.html",
		},
		{
			name:    "subject containing the known phrase",
			subject: "[Alert] New AWS IAM Access Key Pair Created in account 111122223333",
			want:    "IAM Auto Key Rotation Enforcement.html",
		},
		{
			name:    "unknown subject",
			subject: "Config Rule - Wide Open SG Rule Detected",
			want:    "",
		},
		{
			name:    "empty subject",
			subject: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Lookup(tt.subject))
		})
	}
}

func TestRender(t *testing.T) {
	body := "<html><body><p>" + Placeholder + "</p></body></html>"

	rendered := Render(body, "Access key AKIA... must be rotated")

	assert.Equal(t, "<html><body><p>Access key AKIA... must be rotated</p></body></html>", rendered)
	assert.NotContains(t, rendered, Placeholder)
}

func TestRenderWithoutPlaceholderIsNoOp(t *testing.T) {
	body := "<html><body><p>static notice</p></body></html>"

	assert.Equal(t, body, Render(body, "ignored"))
}

func TestRenderTwiceEqualsRenderOnce(t *testing.T) {
	// After the first render the token is gone, so a second render with a
	// different message changes nothing.
	body := "prefix " + Placeholder + " suffix"

	once := Render(body, "violation details")
	twice := Render(once, "other details")

	assert.Equal(t, once, twice)
}

func TestRenderEmptyTemplate(t *testing.T) {
	assert.Equal(t, "", Render("", "violation details"))
}

type fakeS3 struct {
	calls int
	body  string
	err   error
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestStoreFetch(t *testing.T) {
	client := &fakeS3{body: "<html>" + Placeholder + "</html>"}
	store := NewStore(client, "emailer-templates", system.NewTestLogger())

	body, err := store.Fetch(context.Background(), "IAM Auto Key Rotation Enforcement.html")

	require.NoError(t, err)
	assert.Equal(t, "<html>"+Placeholder+"</html>", body)
}

func TestStoreFetchError(t *testing.T) {
	client := &fakeS3{err: errors.New("NoSuchKey")}
	store := NewStore(client, "emailer-templates", system.NewTestLogger())

	_, err := store.Fetch(context.Background(), "missing.html")

	assert.ErrorContains(t, err, "missing.html")
}

func TestResolverKnownSubject(t *testing.T) {
	client := &fakeS3{body: "<html>" + Placeholder + "</html>"}
	resolver := newTestResolver(client)

	body := resolver.Resolve(context.Background(), "New AWS IAM Access Key Pair Created")

	assert.Equal(t, "<html>"+Placeholder+"</html>", body)
	assert.Equal(t, 1, client.calls)
}

func TestResolverUnknownSubjectSkipsFetch(t *testing.T) {
	client := &fakeS3{body: "should not be fetched"}
	resolver := newTestResolver(client)

	body := resolver.Resolve(context.Background(), "Config Rule - Wide Open SG Rule Detected")

	assert.Equal(t, "", body)
	assert.Equal(t, 0, client.calls)
}

func TestResolverFetchFailureDegradesToEmpty(t *testing.T) {
	client := &fakeS3{err: errors.New("AccessDenied")}
	resolver := newTestResolver(client)

	body := resolver.Resolve(context.Background(), "New AWS IAM Access Key Pair Created")

	assert.Equal(t, "", body)
}

func newTestResolver(client S3API) *Resolver {
	log := system.NewTestLogger()
	return NewResolver(
		DefaultCatalog(log),
		NewStore(client, "emailer-templates", log),
		log,
	)
}
