package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/service"
)

type openBattleRequest struct {
	Name           string   `json:"name"`
	CampaignID     string   `json:"campaignId"`
	ParticipantIDs []string `json:"participantIds"`
}

func (h *Handler) openBattle(c *gin.Context) {
	var req openBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	battle, err := h.svc.OpenBattle(c.Request.Context(), service.OpenBattleInput{
		Name:           req.Name,
		CampaignID:     req.CampaignID,
		OwnerID:        principalFrom(c),
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, toBattleView(battle))
}

func (h *Handler) getBattle(c *gin.Context) {
	snapshot, err := h.svc.GetBattle(c.Request.Context(), c.Param("battleID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toSnapshotView(snapshot))
}

func (h *Handler) deleteBattle(c *gin.Context) {
	if err := h.svc.DeleteBattle(c.Request.Context(), c.Param("battleID"), principalFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "battle deleted")
}

type advanceRoundRequest struct {
	Direction string `json:"direction"`
}

func (h *Handler) advanceRound(c *gin.Context) {
	var req advanceRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	battle, err := h.svc.AdvanceRound(c.Request.Context(), service.AdvanceRoundInput{
		BattleID:  c.Param("battleID"),
		Direction: domain.RoundDirection(req.Direction),
		CallerID:  principalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toBattleView(battle))
}

type addParticipantRequest struct {
	CharacterID string `json:"characterId"`
}

func (h *Handler) addParticipant(c *gin.Context) {
	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	battle, err := h.svc.AddParticipant(c.Request.Context(), service.ParticipantInput{
		BattleID:    c.Param("battleID"),
		CharacterID: req.CharacterID,
		CallerID:    principalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toBattleView(battle))
}

func (h *Handler) removeParticipant(c *gin.Context) {
	battle, err := h.svc.RemoveParticipant(c.Request.Context(), service.ParticipantInput{
		BattleID:    c.Param("battleID"),
		CharacterID: c.Param("characterID"),
		CallerID:    principalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toBattleView(battle))
}

func (h *Handler) closeBattle(c *gin.Context) {
	battle, err := h.svc.CloseBattle(c.Request.Context(), c.Param("battleID"), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toBattleView(battle))
}

func (h *Handler) reopenBattle(c *gin.Context) {
	battle, err := h.svc.ReopenBattle(c.Request.Context(), c.Param("battleID"), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toBattleView(battle))
}

func (h *Handler) listCampaignBattles(c *gin.Context) {
	battles, err := h.svc.ListBattlesByCampaign(c.Request.Context(), c.Param("campaignID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toBattleViews(battles))
}
