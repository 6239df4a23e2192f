// Package api 處理 HTTP 路由與 WebSocket 連接點。
//
// 這個包負責把 HTTP 請求轉換為適當的服務調用：一般的 REST 路由
// 服務場次歷史，/ws 路由升級後交給中繼服務處理房間指令。
package api
