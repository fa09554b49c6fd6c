package retail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gretail "cloud.google.com/go/retail/apiv2"
	"cloud.google.com/go/retail/apiv2/retailpb"
	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	applog "github.com/darkkaiser/retail-gateway/pkg/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const component = "retail-client"

// protoJSON 상품 레코드 직렬화에 사용하는 protojson 마샬러.
// 기본 설정은 camelCase 필드명을 생성하며, 정규화 계층은 camelCase와
// snake_case 표기를 모두 허용하므로 그대로 사용합니다.
var protoJSON = protojson.MarshalOptions{}

// GoogleClient Google Cloud Retail API를 사용하는 Client 구현체입니다.
type GoogleClient struct {
	search     *gretail.SearchClient
	completion *gretail.CompletionClient
	prediction *gretail.PredictionClient
	product    *gretail.ProductClient

	// rpcTimeout 개별 RPC 호출에 적용되는 타임아웃. 재시도는 수행하지 않습니다.
	rpcTimeout time.Duration
}

var _ Client = (*GoogleClient)(nil)

// ClientOptions GoogleClient 생성 옵션
type ClientOptions struct {
	// CredentialsFile 서비스 계정 키 파일 경로. 비어있으면 ADC를 사용합니다.
	CredentialsFile string

	// RPCTimeout 개별 RPC 호출의 타임아웃
	RPCTimeout time.Duration
}

// NewGoogleClient Retail API의 각 서비스(Search, Completion, Prediction, Product)에
// 대한 gRPC 클라이언트를 생성합니다. 생성 도중 실패하면 이미 생성된 클라이언트를
// 정리한 뒤 에러를 반환합니다.
func NewGoogleClient(ctx context.Context, opts ClientOptions) (*GoogleClient, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	if opts.RPCTimeout <= 0 {
		opts.RPCTimeout = 10 * time.Second
	}

	c := &GoogleClient{
		rpcTimeout: opts.RPCTimeout,
	}

	var err error
	if c.search, err = gretail.NewSearchClient(ctx, clientOpts...); err != nil {
		return nil, classify(err, "검색 클라이언트 생성에 실패했습니다")
	}
	if c.completion, err = gretail.NewCompletionClient(ctx, clientOpts...); err != nil {
		_ = c.Close()
		return nil, classify(err, "자동완성 클라이언트 생성에 실패했습니다")
	}
	if c.prediction, err = gretail.NewPredictionClient(ctx, clientOpts...); err != nil {
		_ = c.Close()
		return nil, classify(err, "추천 클라이언트 생성에 실패했습니다")
	}
	if c.product, err = gretail.NewProductClient(ctx, clientOpts...); err != nil {
		_ = c.Close()
		return nil, classify(err, "상품 클라이언트 생성에 실패했습니다")
	}

	applog.WithComponent(component).Debug("Retail API 클라이언트가 생성되었습니다")

	return c, nil
}

// Close 내부 gRPC 연결을 모두 종료합니다. 생성되지 않은 클라이언트는 건너뜁니다.
func (c *GoogleClient) Close() error {
	var firstErr error
	closers := []func() error{}
	if c.search != nil {
		closers = append(closers, c.search.Close)
	}
	if c.completion != nil {
		closers = append(closers, c.completion.Close)
	}
	if c.prediction != nil {
		closers = append(closers, c.prediction.Close)
	}
	if c.product != nil {
		closers = append(closers, c.product.Close)
	}
	for _, close := range closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// withTimeout RPC 호출용 타임아웃 context를 생성합니다.
func (c *GoogleClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.rpcTimeout)
}

// Search 검색 Serving Config에 대해 상품 검색을 수행합니다.
// 요청된 페이지 하나만 조회하며, 다음 페이지 토큰을 응답에 포함합니다.
func (c *GoogleClient) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	preq := &retailpb.SearchRequest{
		Placement:  req.Placement,
		Branch:     req.Branch,
		Query:      req.Query,
		VisitorId:  req.VisitorID,
		PageSize:   req.PageSize,
		Offset:     req.Offset,
		Filter:     req.Filter,
		OrderBy:    req.OrderBy,
		FacetSpecs: toProtoFacetSpecs(req.FacetSpecs),
		QueryExpansionSpec: &retailpb.SearchRequest_QueryExpansionSpec{
			Condition: retailpb.SearchRequest_QueryExpansionSpec_AUTO,
		},
	}

	it := c.search.Search(ctx, preq)

	var items []*retailpb.SearchResponse_SearchResult
	pager := iterator.NewPager(it, int(req.PageSize), req.PageToken)
	nextPageToken, err := pager.NextPage(&items)
	if err != nil {
		return nil, classify(err, "상품 검색 요청이 실패했습니다")
	}

	resp := &SearchResponse{
		Results:       make([]SearchResult, 0, len(items)),
		NextPageToken: nextPageToken,
	}

	for _, item := range items {
		record, err := protoJSON.Marshal(item.GetProduct())
		if err != nil {
			return nil, classify(err, "검색 결과 상품 직렬화에 실패했습니다")
		}
		resp.Results = append(resp.Results, SearchResult{
			ID:      item.GetId(),
			Product: record,
		})
	}

	// 페이지 메타데이터(Facet, 전체 건수 등)는 마지막 RPC 응답에서 읽는다.
	if raw, ok := it.Response.(*retailpb.SearchResponse); ok && raw != nil {
		resp.Facets = fromProtoFacets(raw.GetFacets())
		resp.TotalSize = raw.GetTotalSize()
		resp.AttributionToken = raw.GetAttributionToken()
		resp.CorrectedQuery = raw.GetCorrectedQuery()
	}

	return resp, nil
}

// CompleteQuery 검색어 자동완성 제안을 조회합니다.
func (c *GoogleClient) CompleteQuery(ctx context.Context, req *CompleteQueryRequest) (*CompleteQueryResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	preq := &retailpb.CompleteQueryRequest{
		Catalog:        req.Catalog,
		Query:          req.Query,
		VisitorId:      req.VisitorID,
		MaxSuggestions: req.MaxSuggestions,
	}

	raw, err := c.completion.CompleteQuery(ctx, preq)
	if err != nil {
		return nil, classify(err, "자동완성 요청이 실패했습니다")
	}

	resp := &CompleteQueryResponse{
		Suggestions:      make([]Suggestion, 0, len(raw.GetCompletionResults())),
		AttributionToken: raw.GetAttributionToken(),
	}

	for _, result := range raw.GetCompletionResults() {
		suggestion := Suggestion{Suggestion: result.GetSuggestion()}

		if attrs := result.GetAttributes(); len(attrs) > 0 {
			suggestion.Attributes = make(map[string]json.RawMessage, len(attrs))
			for key, attr := range attrs {
				record, err := protoJSON.Marshal(attr)
				if err != nil {
					return nil, classify(err, "자동완성 속성 직렬화에 실패했습니다")
				}
				suggestion.Attributes[key] = record
			}
		}

		resp.Suggestions = append(resp.Suggestions, suggestion)
	}

	return resp, nil
}

// Predict 추천 Serving Config에 대해 상품 추천을 수행합니다.
//
// 합성 사용자 이벤트는 요청의 EventType과 ProductID로 구성됩니다. ProductID가
// 지정된 경우 해당 상품이 이벤트의 상세 정보(ProductDetail)로 포함됩니다.
func (c *GoogleClient) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	userEvent := &retailpb.UserEvent{
		EventType: req.EventType,
		VisitorId: req.VisitorID,
	}
	if req.ProductID != "" {
		userEvent.ProductDetails = []*retailpb.ProductDetail{
			{Product: &retailpb.Product{Id: req.ProductID}},
		}
	}

	params, err := toProtoParams(req.Params)
	if err != nil {
		return nil, err
	}

	preq := &retailpb.PredictRequest{
		Placement:    req.Placement,
		UserEvent:    userEvent,
		PageSize:     req.PageSize,
		Filter:       req.Filter,
		ValidateOnly: req.ValidateOnly,
		Params:       params,
	}

	raw, err := c.prediction.Predict(ctx, preq)
	if err != nil {
		return nil, classify(err, "추천 요청이 실패했습니다")
	}

	resp := &PredictResponse{
		Results:          make([]PredictResult, 0, len(raw.GetResults())),
		AttributionToken: raw.GetAttributionToken(),
		MissingIDs:       raw.GetMissingIds(),
		ValidateOnly:     raw.GetValidateOnly(),
	}

	for _, result := range raw.GetResults() {
		item := PredictResult{ID: result.GetId()}

		if metadata := result.GetMetadata(); len(metadata) > 0 {
			item.Metadata = make(map[string]json.RawMessage, len(metadata))
			for key, value := range metadata {
				record, err := value.MarshalJSON()
				if err != nil {
					return nil, classify(err, "추천 결과 메타데이터 직렬화에 실패했습니다")
				}
				item.Metadata[key] = record
			}
		}

		resp.Results = append(resp.Results, item)
	}

	return resp, nil
}

// GetProduct 상품 리소스 경로(name)로 단일 상품을 조회합니다.
func (c *GoogleClient) GetProduct(ctx context.Context, name string) (json.RawMessage, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	product, err := c.product.GetProduct(ctx, &retailpb.GetProductRequest{Name: name})
	if err != nil {
		return nil, classify(err, fmt.Sprintf("상품 조회 요청이 실패했습니다: '%s'", name))
	}

	record, err := protoJSON.Marshal(product)
	if err != nil {
		return nil, classify(err, "상품 직렬화에 실패했습니다")
	}

	return record, nil
}

// ListProducts 브랜치 내의 상품을 페이지 단위로 조회합니다.
func (c *GoogleClient) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	preq := &retailpb.ListProductsRequest{
		Parent:   req.Parent,
		PageSize: req.PageSize,
		Filter:   req.Filter,
	}

	it := c.product.ListProducts(ctx, preq)

	var items []*retailpb.Product
	pager := iterator.NewPager(it, int(req.PageSize), req.PageToken)
	nextPageToken, err := pager.NextPage(&items)
	if err != nil {
		return nil, classify(err, "상품 목록 조회 요청이 실패했습니다")
	}

	resp := &ListProductsResponse{
		Products:      make([]json.RawMessage, 0, len(items)),
		NextPageToken: nextPageToken,
	}

	for _, product := range items {
		record, err := protoJSON.Marshal(product)
		if err != nil {
			return nil, classify(err, "상품 직렬화에 실패했습니다")
		}
		resp.Products = append(resp.Products, record)
	}

	return resp, nil
}

// toProtoFacetSpecs FacetSpec을 Retail API 요청 형식으로 변환합니다.
func toProtoFacetSpecs(specs []FacetSpec) []*retailpb.SearchRequest_FacetSpec {
	if len(specs) == 0 {
		return nil
	}

	protoSpecs := make([]*retailpb.SearchRequest_FacetSpec, 0, len(specs))
	for _, spec := range specs {
		facetKey := &retailpb.SearchRequest_FacetSpec_FacetKey{
			Key: spec.Key,
		}

		for _, interval := range spec.Intervals {
			protoInterval := &retailpb.Interval{
				Min: &retailpb.Interval_Minimum{Minimum: interval.Min},
			}
			if interval.Max != nil {
				protoInterval.Max = &retailpb.Interval_Maximum{Maximum: *interval.Max}
			}
			facetKey.Intervals = append(facetKey.Intervals, protoInterval)
		}

		protoSpecs = append(protoSpecs, &retailpb.SearchRequest_FacetSpec{
			FacetKey: facetKey,
			Limit:    spec.Limit,
		})
	}

	return protoSpecs
}

// fromProtoFacets Retail API 응답의 Facet을 내부 형식으로 변환합니다.
func fromProtoFacets(protoFacets []*retailpb.SearchResponse_Facet) []Facet {
	if len(protoFacets) == 0 {
		return nil
	}

	facets := make([]Facet, 0, len(protoFacets))
	for _, protoFacet := range protoFacets {
		facet := Facet{
			Key:    protoFacet.GetKey(),
			Values: make([]FacetValue, 0, len(protoFacet.GetValues())),
		}
		for _, value := range protoFacet.GetValues() {
			facet.Values = append(facet.Values, FacetValue{
				Value: value.GetValue(),
				Count: value.GetCount(),
			})
		}
		facets = append(facets, facet)
	}

	return facets
}

// toProtoParams 추천 요청의 파라미터를 structpb.Value 맵으로 변환합니다.
func toProtoParams(params map[string]any) (map[string]*structpb.Value, error) {
	if len(params) == 0 {
		return nil, nil
	}

	protoParams := make(map[string]*structpb.Value, len(params))
	for key, value := range params {
		protoValue, err := structpb.NewValue(value)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("추천 파라미터('%s')를 변환할 수 없습니다", key))
		}
		protoParams[key] = protoValue
	}

	return protoParams, nil
}
