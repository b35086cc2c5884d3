// Package api exposes the battle engagement service over HTTP. Handlers
// translate JSON requests into service calls and map domain error kinds to
// status codes; live battle watching rides a websocket fed by the
// notification hub.
package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/HensleyFerrari/rpg-app/internal/battle/service"
	"github.com/HensleyFerrari/rpg-app/internal/notify"
)

// Handler carries the dependencies shared by all battle endpoints.
type Handler struct {
	svc    *service.Service
	hub    *notify.Hub
	secret []byte
	logger *log.Logger
}

// New builds the HTTP handler set.
func New(svc *service.Service, hub *notify.Hub, secret []byte, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{svc: svc, hub: hub, secret: secret, logger: logger}
}

// Register mounts all routes on the engine. Everything under /api/v1
// requires a bearer token; /healthz does not.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	v1 := r.Group("/api/v1")
	v1.Use(requireAuth(h.secret))

	battles := v1.Group("/battles")
	battles.POST("", h.openBattle)
	battles.GET("/:battleID", h.getBattle)
	battles.DELETE("/:battleID", h.deleteBattle)
	battles.POST("/:battleID/round", h.advanceRound)
	battles.POST("/:battleID/participants", h.addParticipant)
	battles.DELETE("/:battleID/participants/:characterID", h.removeParticipant)
	battles.POST("/:battleID/close", h.closeBattle)
	battles.POST("/:battleID/reopen", h.reopenBattle)
	battles.POST("/:battleID/actions", h.recordAction)
	battles.GET("/:battleID/actions", h.listBattleActions)
	battles.GET("/:battleID/stats", h.battleStats)
	battles.GET("/:battleID/watch", h.watchBattle)

	actions := v1.Group("/actions")
	actions.PATCH("/:actionID", h.editAction)
	actions.DELETE("/:actionID", h.deleteAction)

	campaigns := v1.Group("/campaigns")
	campaigns.GET("/:campaignID/battles", h.listCampaignBattles)
	campaigns.GET("/:campaignID/actions", h.listCampaignActions)
}

func (h *Handler) health(c *gin.Context) {
	respondData(c, 200, gin.H{"status": "ok"})
}
