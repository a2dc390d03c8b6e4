package bedrockKB

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/rag/knowledgeBase"
	"github.com/akolanti/kbchat/pkg/logger_i"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	smithydocument "github.com/aws/smithy-go/document"
)

// retrieveAPI is the slice of the bedrock agent runtime client we call.
type retrieveAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

type kbClient struct {
	api             retrieveAPI
	knowledgeBaseID string
	logger          *logger_i.Logger
}

// NewRetriever builds a bedrock knowledge base client for the configured region using the
// default AWS credential chain and the sdk's standard retry mode.
func NewRetriever(ctx context.Context, settings config.Settings, httpClient *http.Client) (knowledgeBase.Retriever, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(settings.Region),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(config.RetrievalMaxAttempts),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, &config.ConfigurationError{Setting: "AWS_DEFAULT_REGION", Reason: "could not load aws config", Err: err}
	}

	return newKBClient(bedrockagentruntime.NewFromConfig(awsCfg), settings.KnowledgeBaseID), nil
}

func newKBClient(api retrieveAPI, knowledgeBaseID string) *kbClient {
	return &kbClient{
		api:             api,
		knowledgeBaseID: knowledgeBaseID,
		logger:          logger_i.NewLogger("bedrock_kb"),
	}
}

func (c *kbClient) Retrieve(ctx context.Context, query string, topK int) ([]commonModels.Passage, error) {
	log := c.logger.WithTrace(ctx)
	log.Debug("retrieving passages", "knowledgeBaseId", c.knowledgeBaseID, "topK", topK)

	out, err := c.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(c.knowledgeBaseID),
		RetrievalQuery:  &types.KnowledgeBaseQuery{Text: aws.String(query)},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults: aws.Int32(int32(topK)),
			},
		},
	})
	if err != nil {
		log.Error("knowledge base retrieve failed", "error", err)
		return nil, &commonModels.RetrievalError{KnowledgeBaseID: c.knowledgeBaseID, Err: err}
	}

	passages := make([]commonModels.Passage, 0, len(out.RetrievalResults))
	for _, r := range out.RetrievalResults {
		passages = append(passages, toPassage(log, r))
	}
	log.Debug("retrieved passages", "count", len(passages))
	return passages, nil
}

func toPassage(log *logger_i.Logger, r types.KnowledgeBaseRetrievalResult) commonModels.Passage {
	p := commonModels.Passage{
		Location: toLocation(r.Location),
		Metadata: toMetadata(log, r.Metadata),
		Score:    r.Score,
	}
	if r.Content != nil {
		p.Text = aws.ToString(r.Content.Text)
	}
	return p
}

// toLocation mirrors the service's JSON shape, e.g. {"type": "S3", "s3Location": {"uri": "..."}}.
func toLocation(loc *types.RetrievalResultLocation) map[string]any {
	out := map[string]any{}
	if loc == nil {
		return out
	}
	if loc.Type != "" {
		out["type"] = string(loc.Type)
	}
	if l := loc.S3Location; l != nil {
		out["s3Location"] = map[string]any{"uri": aws.ToString(l.Uri)}
	}
	if l := loc.WebLocation; l != nil {
		out["webLocation"] = map[string]any{"url": aws.ToString(l.Url)}
	}
	if l := loc.ConfluenceLocation; l != nil {
		out["confluenceLocation"] = map[string]any{"url": aws.ToString(l.Url)}
	}
	if l := loc.SalesforceLocation; l != nil {
		out["salesforceLocation"] = map[string]any{"url": aws.ToString(l.Url)}
	}
	if l := loc.SharePointLocation; l != nil {
		out["sharePointLocation"] = map[string]any{"url": aws.ToString(l.Url)}
	}
	if l := loc.KendraDocumentLocation; l != nil {
		out["kendraDocumentLocation"] = map[string]any{"uri": aws.ToString(l.Uri)}
	}
	if l := loc.CustomDocumentLocation; l != nil {
		out["customDocumentLocation"] = map[string]any{"id": aws.ToString(l.Id)}
	}
	if l := loc.SqlLocation; l != nil {
		out["sqlLocation"] = map[string]any{"query": aws.ToString(l.Query)}
	}
	return out
}

func toMetadata(log *logger_i.Logger, md map[string]document.Interface) map[string]any {
	out := make(map[string]any, len(md))
	for k, doc := range md {
		if doc == nil {
			out[k] = nil
			continue
		}
		v, err := decodeDocument(doc)
		if err != nil {
			log.Warn("dropping undecodable metadata value", "key", k, "error", err)
			continue
		}
		out[k] = plainValue(v)
	}
	return out
}

type smithyDocument interface {
	UnmarshalSmithyDocument(v interface{}) error
	MarshalSmithyDocument() ([]byte, error)
}

// decodeDocument handles both wire documents, which unmarshal directly, and locally built
// lazy documents, which only marshal.
func decodeDocument(doc smithyDocument) (any, error) {
	var v any
	err := doc.UnmarshalSmithyDocument(&v)
	if err == nil {
		return v, nil
	}
	raw, marshalErr := doc.MarshalSmithyDocument()
	if marshalErr != nil {
		return nil, err
	}
	v = nil
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// plainValue replaces smithy/json number wrappers with float64 so metadata serializes as JSON numbers.
func plainValue(v any) any {
	switch t := v.(type) {
	case smithydocument.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, inner := range t {
			t[k] = plainValue(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = plainValue(inner)
		}
		return t
	default:
		return v
	}
}
