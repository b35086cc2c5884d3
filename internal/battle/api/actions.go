package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/service"
)

type recordActionRequest struct {
	Kind        string `json:"kind"`
	CharacterID string `json:"characterId"`
	TargetID    string `json:"targetId"`
	Magnitude   int    `json:"magnitude"`
	Critical    bool   `json:"critical"`
	Description string `json:"description"`
}

func (h *Handler) recordAction(c *gin.Context) {
	var req recordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := domain.ParseActionKind(req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}
	action, err := h.svc.RecordAction(c.Request.Context(), service.RecordActionInput{
		BattleID: c.Param("battleID"),
		CallerID: principalFrom(c),
		Action: domain.ActionInput{
			Kind:        kind,
			CharacterID: req.CharacterID,
			TargetID:    req.TargetID,
			Magnitude:   req.Magnitude,
			Critical:    req.Critical,
			Description: req.Description,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, toActionView(action))
}

type editActionRequest struct {
	Magnitude   *int    `json:"magnitude"`
	Critical    *bool   `json:"critical"`
	CharacterID *string `json:"characterId"`
	TargetID    *string `json:"targetId"`
	Description *string `json:"description"`
}

func (h *Handler) editAction(c *gin.Context) {
	var req editActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := h.svc.EditAction(c.Request.Context(), service.EditActionInput{
		ActionID: c.Param("actionID"),
		CallerID: principalFrom(c),
		Changes: domain.ActionChanges{
			Magnitude:   req.Magnitude,
			Critical:    req.Critical,
			CharacterID: req.CharacterID,
			TargetID:    req.TargetID,
			Description: req.Description,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toActionView(action))
}

func (h *Handler) deleteAction(c *gin.Context) {
	err := h.svc.DeleteAction(c.Request.Context(), service.DeleteActionInput{
		ActionID: c.Param("actionID"),
		BattleID: c.Query("battleId"),
		CallerID: principalFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "action deleted")
}

func (h *Handler) listBattleActions(c *gin.Context) {
	actions, err := h.svc.ListActionsByBattle(c.Request.Context(), c.Param("battleID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toActionViews(actions))
}

func (h *Handler) listCampaignActions(c *gin.Context) {
	actions, err := h.svc.ListActionsByCampaign(c.Request.Context(), c.Param("campaignID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toActionViews(actions))
}

func (h *Handler) battleStats(c *gin.Context) {
	report, err := h.svc.ComputeBattleStats(c.Request.Context(), c.Param("battleID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}
