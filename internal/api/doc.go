// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含房間建立與查詢的 REST 端點，以及 WebSocket 的升級端點。
// 它負責將 HTTP 請求轉換為適當的服務調用，並將結果轉換回 HTTP 響應。
package api
