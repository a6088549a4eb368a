package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/finance"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type GoalHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewGoalHandler(db *gorm.DB, cfg *config.Config) *GoalHandler {
	return &GoalHandler{db: db, config: cfg}
}

type GoalRequest struct {
	Month              string  `json:"month" binding:"required"` // YYYY-MM
	RevenueTarget      float64 `json:"revenue_target" binding:"gte=0"`
	AppointmentsTarget int     `json:"appointments_target" binding:"gte=0"`
}

// UpsertGoal creates or replaces the goal for a month.
func (h *GoalHandler) UpsertGoal(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.ParseInLocation("2006-01", req.Month, time.Local); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	goal := models.Goal{
		Month:              req.Month,
		RevenueTarget:      req.RevenueTarget,
		AppointmentsTarget: req.AppointmentsTarget,
	}
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"revenue_target", "appointments_target", "updated_at"}),
	}).Create(&goal).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save goal"})
		return
	}

	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	var goals []models.Goal
	if err := h.db.Order("month desc").Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goals"})
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.db.Delete(&models.Goal{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// GetGoalProgress evaluates the month's goal against realized revenue and
// appointment count.
func (h *GoalHandler) GetGoalProgress(c *gin.Context) {
	month := c.Param("month")
	from, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
		return
	}

	var goal models.Goal
	if err := h.db.Where("month = ?", month).First(&goal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No goal for this month"})
		return
	}

	p := finance.Month(from.Year(), from.Month())
	appts, installments, _, err := loadFinancialRows(h.db, p, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch financial data"})
		return
	}

	summary := finance.Summarize(appts, installments, nil, p, true)
	c.JSON(http.StatusOK, finance.Progress(goal, summary))
}
