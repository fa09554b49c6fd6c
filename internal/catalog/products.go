package catalog

import (
	"context"

	"github.com/darkkaiser/retail-gateway/internal/retail"
)

// defaultListPageSize 상품 목록 페이지 크기 기본값
const defaultListPageSize = 20

// ListProductsInput 상품 목록 조회 입력
type ListProductsInput struct {
	PageSize  int32
	PageToken string
	Filter    string
}

// ListProductsOutput 상품 목록 조회 결과. 마지막 페이지에서는 NextPageToken이
// 빈 문자열입니다.
type ListProductsOutput struct {
	Products      []*CanonicalProduct `json:"products"`
	NextPageToken string              `json:"next_page_token"`
}

// GetProduct 상품 ID로 단일 상품을 조회하고 정규화하여 반환합니다.
// 존재하지 않는 상품은 NotFound 에러로 전파됩니다.
func (g *Gateway) GetProduct(ctx context.Context, productID string) (*CanonicalProduct, error) {
	record, err := g.client.GetProduct(ctx, g.cfg.ProductName(productID))
	if err != nil {
		return nil, err
	}

	return Normalize(record)
}

// ListProducts 브랜치 내의 상품을 페이지 단위로 조회하고 각 상품을 정규화하여
// 반환합니다. 업스트림 실패는 호출자에게 그대로 전파됩니다.
func (g *Gateway) ListProducts(ctx context.Context, in *ListProductsInput) (*ListProductsOutput, error) {
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}

	resp, err := g.client.ListProducts(ctx, &retail.ListProductsRequest{
		Parent:    g.cfg.BranchPath(),
		PageSize:  pageSize,
		PageToken: in.PageToken,
		Filter:    in.Filter,
	})
	if err != nil {
		return nil, err
	}

	out := &ListProductsOutput{
		Products:      make([]*CanonicalProduct, 0, len(resp.Products)),
		NextPageToken: resp.NextPageToken,
	}

	for _, record := range resp.Products {
		product, err := Normalize(record)
		if err != nil {
			return nil, err
		}
		out.Products = append(out.Products, product)
	}

	return out, nil
}
