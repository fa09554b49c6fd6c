package catalog

import (
	"encoding/json"
	"strings"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// CanonicalProduct 업스트림 상품 레코드를 정규화한 안정적인 응답 형태입니다.
//
// 모든 필드는 항상 값이 채워집니다(빈 문자열, 빈 슬라이스 또는 문서화된 기본값).
// 호출자는 필드 존재 여부를 분기할 필요가 없습니다. 단, PriceInfo는 예외로
// 가격 정보가 없는 상태(nil)와 0원인 상태를 구분하기 위해 포인터를 사용합니다.
type CanonicalProduct struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Title        string                    `json:"title"`
	Description  string                    `json:"description"`
	Categories   []string                  `json:"categories"`
	Brands       []string                  `json:"brands"`
	PriceInfo    *PriceInfo                `json:"price_info"`
	Availability string                    `json:"availability"`
	URI          string                    `json:"uri"`
	Images       []Image                   `json:"images"`
	Attributes   map[string]AttributeValue `json:"attributes"`
}

// PriceInfo 상품의 가격 정보
type PriceInfo struct {
	CurrencyCode  string   `json:"currency_code"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
}

// Image 상품 이미지
type Image struct {
	URI    string `json:"uri"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// AttributeValue 상품 속성 값. 문자열 목록 또는 숫자 목록 중 하나만 가집니다.
// 두 형태는 의미가 다르므로 병합하지 않습니다.
type AttributeValue struct {
	Text    []string
	Numbers []float64
}

// MarshalJSON 채워진 쪽의 목록을 그대로 직렬화합니다.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	if v.Text != nil {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Numbers)
}

// UnmarshalJSON 문자열 목록을 우선 시도하고, 실패하면 숫자 목록으로 해석합니다.
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var text []string
	if err := json.Unmarshal(data, &text); err == nil {
		v.Text = text
		v.Numbers = nil
		return nil
	}

	var numbers []float64
	if err := json.Unmarshal(data, &numbers); err != nil {
		return err
	}
	v.Numbers = numbers
	v.Text = nil
	return nil
}

// productFieldPaths 업스트림 상품 레코드의 필드 접근 경로 테이블입니다.
//
// 업스트림 응답은 SDK 버전 및 응답 경로에 따라 camelCase와 snake_case 표기가
// 혼재하므로, 각 필드마다 순서대로 시도할 경로 목록을 정의합니다. 먼저 존재하는
// 경로가 선택되며, 새로운 표기가 발견되면 이 테이블에 경로만 추가하면 됩니다.
var productFieldPaths = map[string][]string{
	"id":           {"id"},
	"name":         {"name"},
	"title":        {"title"},
	"description":  {"description"},
	"categories":   {"categories"},
	"brands":       {"brands"},
	"priceInfo":    {"priceInfo", "price_info"},
	"availability": {"availability"},
	"uri":          {"uri"},
	"images":       {"images"},
	"attributes":   {"attributes"},
}

// priceFieldPaths 가격 하위 레코드 내부의 필드 접근 경로 테이블입니다.
var priceFieldPaths = map[string][]string{
	"currencyCode":  {"currencyCode", "currency_code"},
	"price":         {"price"},
	"originalPrice": {"originalPrice", "original_price"},
	"cost":          {"cost"},
}

// firstPath 경로 목록을 순서대로 시도하여 먼저 존재하는 값을 반환합니다.
func firstPath(record gjson.Result, paths []string) gjson.Result {
	for _, path := range paths {
		if value := record.Get(path); value.Exists() {
			return value
		}
	}
	return gjson.Result{}
}

// Normalize 업스트림 원본 JSON 상품 레코드를 CanonicalProduct로 정규화합니다.
//
// 이 함수는 전체 함수(total function)입니다. 필드가 아무리 누락되어도 실패하지
// 않으며, 입력이 JSON 객체가 아닌 경우에만 ParsingFailed 에러를 반환합니다.
//
// 정규화 규칙:
//   - id: 직접 필드가 비어있으면 name 리소스 경로의 마지막 세그먼트에서 유도
//   - title: 빈 문자열도 그대로 보존 (참조 전용 응답의 신호이므로 기본값 대체 금지)
//   - price_info: 가격 하위 레코드가 존재하고 price가 0이 아닐 때만 채워짐.
//     가격이 정확히 0이면 가격 정보 없음으로 취급. currency_code 기본값은 "USD"
//   - categories/brands/images: 누락 시 빈 슬라이스
//   - attributes: 키마다 text 또는 numbers 중 채워진 쪽을 복사, 둘 다 없으면 제외
//   - availability: 누락 시 "UNKNOWN"
func Normalize(record []byte) (*CanonicalProduct, error) {
	if !gjson.ValidBytes(record) {
		return nil, apperrors.New(apperrors.ParsingFailed, "상품 레코드가 유효한 JSON이 아닙니다")
	}

	root := gjson.ParseBytes(record)
	if !root.IsObject() {
		return nil, apperrors.New(apperrors.ParsingFailed, "상품 레코드가 JSON 객체가 아닙니다")
	}

	product := &CanonicalProduct{
		Name:         firstPath(root, productFieldPaths["name"]).String(),
		Title:        firstPath(root, productFieldPaths["title"]).String(),
		Description:  firstPath(root, productFieldPaths["description"]).String(),
		URI:          firstPath(root, productFieldPaths["uri"]).String(),
		Categories:   []string{},
		Brands:       []string{},
		Images:       []Image{},
		Attributes:   map[string]AttributeValue{},
		Availability: "UNKNOWN",
	}

	// id: 직접 필드 우선, 없으면 리소스 경로의 마지막 세그먼트에서 유도한다.
	// 둘 다 비어있으면 빈 문자열로 남으며, 이것도 유효한 결과이다.
	product.ID = firstPath(root, productFieldPaths["id"]).String()
	if product.ID == "" && product.Name != "" {
		segments := strings.Split(product.Name, "/")
		product.ID = segments[len(segments)-1]
	}

	if availability := firstPath(root, productFieldPaths["availability"]); availability.Exists() {
		product.Availability = availability.String()
	}

	product.PriceInfo = normalizePriceInfo(firstPath(root, productFieldPaths["priceInfo"]))

	firstPath(root, productFieldPaths["categories"]).ForEach(func(_, value gjson.Result) bool {
		product.Categories = append(product.Categories, value.String())
		return true
	})

	firstPath(root, productFieldPaths["brands"]).ForEach(func(_, value gjson.Result) bool {
		product.Brands = append(product.Brands, value.String())
		return true
	})

	firstPath(root, productFieldPaths["images"]).ForEach(func(_, image gjson.Result) bool {
		product.Images = append(product.Images, Image{
			URI:    image.Get("uri").String(),
			Height: int(image.Get("height").Int()),
			Width:  int(image.Get("width").Int()),
		})
		return true
	})

	firstPath(root, productFieldPaths["attributes"]).ForEach(func(key, value gjson.Result) bool {
		if attr, ok := normalizeAttribute(value); ok {
			product.Attributes[key.String()] = attr
		}
		return true
	})

	return product, nil
}

// normalizePriceInfo 가격 하위 레코드를 정규화합니다.
// 레코드가 없거나 price가 0이면 nil을 반환합니다.
func normalizePriceInfo(record gjson.Result) *PriceInfo {
	if !record.Exists() || !record.IsObject() {
		return nil
	}

	price := firstPath(record, priceFieldPaths["price"]).Float()
	if price == 0 {
		return nil
	}

	priceInfo := &PriceInfo{
		CurrencyCode: "USD",
		Price:        price,
	}

	if currency := firstPath(record, priceFieldPaths["currencyCode"]); currency.Exists() && currency.String() != "" {
		priceInfo.CurrencyCode = currency.String()
	}

	if original := firstPath(record, priceFieldPaths["originalPrice"]); original.Exists() && original.Float() != 0 {
		value := original.Float()
		priceInfo.OriginalPrice = &value
	}

	if cost := firstPath(record, priceFieldPaths["cost"]); cost.Exists() && cost.Float() != 0 {
		value := cost.Float()
		priceInfo.Cost = &value
	}

	return priceInfo
}

// normalizeAttribute 속성 값에서 text 또는 numbers 목록을 추출합니다.
// 둘 다 비어있으면 false를 반환하여 해당 키를 결과에서 제외합니다.
func normalizeAttribute(value gjson.Result) (AttributeValue, bool) {
	if text := value.Get("text"); text.Exists() && text.IsArray() {
		var items []string
		text.ForEach(func(_, item gjson.Result) bool {
			items = append(items, item.String())
			return true
		})
		if len(items) > 0 {
			return AttributeValue{Text: items}, true
		}
	}

	if numbers := value.Get("numbers"); numbers.Exists() && numbers.IsArray() {
		var items []float64
		numbers.ForEach(func(_, item gjson.Result) bool {
			items = append(items, item.Float())
			return true
		})
		if len(items) > 0 {
			return AttributeValue{Numbers: items}, true
		}
	}

	return AttributeValue{}, false
}
