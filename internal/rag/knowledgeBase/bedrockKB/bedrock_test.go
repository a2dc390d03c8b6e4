package bedrockKB

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/pkg/logger_i"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	smithydocument "github.com/aws/smithy-go/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRetrieveAPI struct {
	OnRetrieve func(ctx context.Context, in *bedrockagentruntime.RetrieveInput) (*bedrockagentruntime.RetrieveOutput, error)
	calls      int
}

func (m *mockRetrieveAPI) Retrieve(ctx context.Context, in *bedrockagentruntime.RetrieveInput, _ ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error) {
	m.calls++
	return m.OnRetrieve(ctx, in)
}

func TestRetrieve_BuildsScopedRequest(t *testing.T) {
	var captured *bedrockagentruntime.RetrieveInput
	api := &mockRetrieveAPI{OnRetrieve: func(_ context.Context, in *bedrockagentruntime.RetrieveInput) (*bedrockagentruntime.RetrieveOutput, error) {
		captured = in
		return &bedrockagentruntime.RetrieveOutput{}, nil
	}}

	passages, err := newKBClient(api, "KB42").Retrieve(context.Background(), "What is the vacation policy?", 3)
	require.NoError(t, err)
	assert.Empty(t, passages)
	assert.NotNil(t, passages)

	require.NotNil(t, captured)
	assert.Equal(t, "KB42", aws.ToString(captured.KnowledgeBaseId))
	assert.Equal(t, "What is the vacation policy?", aws.ToString(captured.RetrievalQuery.Text))
	assert.Equal(t, int32(3), aws.ToInt32(captured.RetrievalConfiguration.VectorSearchConfiguration.NumberOfResults))
}

const retrieveResponse = `{
  "retrievalResults": [
    {
      "content": {"text": "Employees get 20 days."},
      "location": {"type": "S3", "s3Location": {"uri": "s3://hr/handbook.pdf"}},
      "metadata": {"source": "handbook.pdf", "page": 3, "tags": ["hr", "pto"]},
      "score": 0.91
    },
    {},
    {
      "content": {},
      "location": {"type": "WEB", "webLocation": {"url": "https://intranet/pto"}}
    }
  ]
}`

// newWireClient runs requests through the sdk's real serializer and deserializer against a local server.
func newWireClient(t *testing.T, handler http.HandlerFunc) *kbClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := bedrockagentruntime.New(bedrockagentruntime.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		Credentials:      aws.AnonymousCredentials{},
		HTTPClient:       srv.Client(),
		RetryMaxAttempts: 1,
	})
	return newKBClient(api, "KB42")
}

func TestRetrieve_NormalizesResultsInOrder(t *testing.T) {
	var body struct {
		RetrievalQuery struct {
			Text string `json:"text"`
		} `json:"retrievalQuery"`
		RetrievalConfiguration struct {
			VectorSearchConfiguration struct {
				NumberOfResults int `json:"numberOfResults"`
			} `json:"vectorSearchConfiguration"`
		} `json:"retrievalConfiguration"`
	}
	var path string
	client := newWireClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, retrieveResponse)
	})

	passages, err := client.Retrieve(context.Background(), "What is the vacation policy?", 5)
	require.NoError(t, err)
	require.Len(t, passages, 3)

	assert.Equal(t, "/knowledgebases/KB42/retrieve", path)
	assert.Equal(t, "What is the vacation policy?", body.RetrievalQuery.Text)
	assert.Equal(t, 5, body.RetrievalConfiguration.VectorSearchConfiguration.NumberOfResults)

	first := passages[0]
	assert.Equal(t, "Employees get 20 days.", first.Text)
	assert.Equal(t, "S3", first.Location["type"])
	assert.Equal(t, map[string]any{"uri": "s3://hr/handbook.pdf"}, first.Location["s3Location"])
	assert.Equal(t, "handbook.pdf", first.Metadata["source"])
	assert.EqualValues(t, 3, first.Metadata["page"])
	assert.Equal(t, []any{"hr", "pto"}, first.Metadata["tags"])
	require.NotNil(t, first.Score)
	assert.InDelta(t, 0.91, *first.Score, 1e-9)
	assert.Equal(t, "handbook.pdf", first.SourceLabel())

	empty := passages[1]
	assert.Equal(t, "", empty.Text)
	assert.NotNil(t, empty.Location)
	assert.Empty(t, empty.Location)
	assert.NotNil(t, empty.Metadata)
	assert.Empty(t, empty.Metadata)
	assert.Nil(t, empty.Score)
	assert.Equal(t, "", empty.SourceLabel())

	web := passages[2]
	assert.Equal(t, "", web.Text)
	assert.Equal(t, "WEB", web.Location["type"])
	assert.Equal(t, map[string]any{"url": "https://intranet/pto"}, web.Location["webLocation"])
}

func TestToMetadata_LazyDocuments(t *testing.T) {
	md := toMetadata(logger_i.NewLogger("test"), map[string]document.Interface{
		"source": document.NewLazyDocument("handbook.pdf"),
		"page":   document.NewLazyDocument(3),
		"empty":  nil,
	})

	assert.Equal(t, "handbook.pdf", md["source"])
	assert.EqualValues(t, 3, md["page"])
	v, ok := md["empty"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

type brokenDocument struct{}

func (brokenDocument) UnmarshalSmithyDocument(interface{}) error { return errors.New("cannot unmarshal") }
func (brokenDocument) MarshalSmithyDocument() ([]byte, error) { return nil, errors.New("cannot marshal") }

func TestDecodeDocument_ReportsFailure(t *testing.T) {
	v, err := decodeDocument(brokenDocument{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot unmarshal")
	assert.Nil(t, v)
}

func TestRetrieve_WrapsUpstreamFailure(t *testing.T) {
	upstream := errors.New("ResourceNotFoundException: knowledge base not found")
	api := &mockRetrieveAPI{OnRetrieve: func(context.Context, *bedrockagentruntime.RetrieveInput) (*bedrockagentruntime.RetrieveOutput, error) {
		return nil, upstream
	}}

	passages, err := newKBClient(api, "KB-missing").Retrieve(context.Background(), "q", 2)
	require.Error(t, err)
	assert.Nil(t, passages)
	assert.Equal(t, 1, api.calls)

	var retrievalErr *commonModels.RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, "KB-missing", retrievalErr.KnowledgeBaseID)
	assert.ErrorIs(t, err, upstream)
	assert.Contains(t, err.Error(), "knowledge base not found")
}

func TestPlainValue_Numbers(t *testing.T) {
	in := map[string]any{
		"page":  smithydocument.Number("2.5"),
		"pages": []any{json.Number("4"), "appendix"},
		"title": "Handbook",
	}

	out, ok := plainValue(in).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2.5, out["page"])
	assert.Equal(t, []any{4.0, "appendix"}, out["pages"])
	assert.Equal(t, "Handbook", out["title"])
}
