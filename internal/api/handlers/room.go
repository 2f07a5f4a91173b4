package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lunch_vote/internal/service"
)

// RoomHandler 處理與聚餐房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Lat float64 `json:"lat" binding:"required"`
		Lng float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), input.Lat, input.Lng)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建房間失敗"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"roomCode": room.RoomCode})
}

// ValidRoom 確認房間代碼是否存在
func (h *RoomHandler) ValidRoom(c *gin.Context) {
	valid, err := h.roomService.ValidRoom(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查詢房間失敗"})
		return
	}
	if !valid {
		c.JSON(http.StatusNotFound, gin.H{"isRoomValid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isRoomValid": true})
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, catalog, err := h.roomService.GetRoom(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roomCode":       room.RoomCode,
		"lat":            room.Lat,
		"lng":            room.Lng,
		"restaurantList": catalog,
	})
}
