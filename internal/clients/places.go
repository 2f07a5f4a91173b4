// Package clients 封裝對外部 API 的呼叫。
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lunch_vote/internal/models"
)

// 地點搜尋 API 的餐廳類別代碼
const categoryGroupRestaurant = "FD6"

// PlacesClient 呼叫地點搜尋服務，在建立房間時取得附近的餐廳
type PlacesClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPlacesClient(baseURL, apiKey string) *PlacesClient {
	return &PlacesClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// 搜尋回應的欄位，沿用地點搜尋服務的命名
type placeDocument struct {
	ID           string `json:"id"`
	PlaceName    string `json:"place_name"`
	CategoryName string `json:"category_name"`
	AddressName  string `json:"road_address_name"`
	X            string `json:"x"` // 經度
	Y            string `json:"y"` // 緯度
	PlaceURL     string `json:"place_url"`
	Distance     string `json:"distance"`
}

type placeSearchResponse struct {
	Documents []placeDocument `json:"documents"`
}

// SearchNearby 搜尋指定座標半徑內的餐廳
func (c *PlacesClient) SearchNearby(ctx context.Context, lat, lng float64, radius int) ([]models.Restaurant, error) {
	query := url.Values{}
	query.Set("category_group_code", categoryGroupRestaurant)
	query.Set("x", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("y", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("radius", strconv.Itoa(radius))

	endpoint := c.baseURL + "/v2/local/search/category.json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("places API returned status code: %d, response: %s", resp.StatusCode, string(responseBody))
	}

	var result placeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	restaurants := make([]models.Restaurant, 0, len(result.Documents))
	for _, doc := range result.Documents {
		docLat, _ := strconv.ParseFloat(doc.Y, 64)
		docLng, _ := strconv.ParseFloat(doc.X, 64)
		distance, _ := strconv.Atoi(doc.Distance)

		restaurants = append(restaurants, models.Restaurant{
			PlaceID:  doc.ID,
			Name:     doc.PlaceName,
			Category: doc.CategoryName,
			Address:  doc.AddressName,
			Lat:      docLat,
			Lng:      docLng,
			PlaceURL: doc.PlaceURL,
			Distance: distance,
		})
	}
	return restaurants, nil
}
