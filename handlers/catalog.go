package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

// CatalogHandler serves the procedure and material catalogs.
type CatalogHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewCatalogHandler(db *gorm.DB, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{db: db, config: cfg}
}

type ProcedureRequest struct {
	Name  string  `json:"name" binding:"required"`
	Value float64 `json:"value" binding:"gte=0"`
}

func (h *CatalogHandler) CreateProcedure(c *gin.Context) {
	var req ProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	procedure := models.Procedure{Name: req.Name, Value: req.Value}
	if err := h.db.Create(&procedure).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Procedure already exists"})
		return
	}

	c.JSON(http.StatusCreated, procedure)
}

func (h *CatalogHandler) UpdateProcedure(c *gin.Context) {
	id := c.Param("id")
	var procedure models.Procedure
	if err := h.db.First(&procedure, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Procedure not found"})
		return
	}

	var req ProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	procedure.Name = req.Name
	procedure.Value = req.Value
	if err := h.db.Save(&procedure).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update procedure"})
		return
	}

	c.JSON(http.StatusOK, procedure)
}

func (h *CatalogHandler) ListProcedures(c *gin.Context) {
	var procedures []models.Procedure
	if err := h.db.Order("name").Find(&procedures).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch procedures"})
		return
	}
	c.JSON(http.StatusOK, procedures)
}

func (h *CatalogHandler) DeleteProcedure(c *gin.Context) {
	if err := h.db.Delete(&models.Procedure{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete procedure"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Procedure deleted"})
}

type MaterialRequest struct {
	Name        string  `json:"name" binding:"required"`
	UnitCost    float64 `json:"unit_cost" binding:"gte=0"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"min_quantity"`
	Unit        string  `json:"unit"`
}

func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	material := models.Material{
		Name:        req.Name,
		UnitCost:    req.UnitCost,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	}
	if err := h.db.Create(&material).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Material already exists"})
		return
	}

	c.JSON(http.StatusCreated, material)
}

func (h *CatalogHandler) UpdateMaterial(c *gin.Context) {
	id := c.Param("id")
	var material models.Material
	if err := h.db.First(&material, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Material not found"})
		return
	}

	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	material.Name = req.Name
	material.UnitCost = req.UnitCost
	material.Quantity = req.Quantity
	material.MinQuantity = req.MinQuantity
	material.Unit = req.Unit
	if err := h.db.Save(&material).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update material"})
		return
	}

	c.JSON(http.StatusOK, material)
}

func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	query := h.db.Order("name")
	if c.Query("low_stock") == "true" {
		query = query.Where("quantity <= min_quantity")
	}

	var materials []models.Material
	if err := query.Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch materials"})
		return
	}
	c.JSON(http.StatusOK, materials)
}

func (h *CatalogHandler) DeleteMaterial(c *gin.Context) {
	if err := h.db.Delete(&models.Material{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete material"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted"})
}

// ListStockMovements exposes the audit trail of material deductions.
func (h *CatalogHandler) ListStockMovements(c *gin.Context) {
	query := h.db.Order("movement_date desc")
	if s := c.Query("appointment_id"); s != "" {
		query = query.Where("appointment_id = ?", s)
	}

	var movements []models.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}
