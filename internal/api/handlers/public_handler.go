package handlers

import (
	"log"
	"net/http"
)

// HealthHandler はサーバーの稼働確認用エンドポイントです。
// GET /api/health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("[PublicHandler] Request to public endpoint: /api/health")
	WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
