// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包負責 session cookie 的發放與驗證。
// REST 路由用 Session 在首次請求時建立身分，
// WebSocket 升級路由用 RequireSession 拒絕無法識別的連線。
package middleware
