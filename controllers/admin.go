package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"bayorder-backend/models"
	"bayorder-backend/services"
	"bayorder-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController covers the admin panel surface: auth verification,
// menu stats, sync, publish, deploy and the backup history. Reads are
// open; every mutating action goes through the auth gate.
type AdminController struct {
	DB       *gorm.DB
	Gate     *services.AuthGate
	Importer *services.SheetImporter
	Pub      *services.Publisher
	Deployer *services.Deployer
}

type verifyAuthInput struct {
	Token string `json:"token"`
}

// VerifyAuth validates a Google ID token and reports admin membership.
// A valid token for a non-admin is a 200 with authorized:false, so the
// UI can say "contact an admin" instead of "log in again".
func (a *AdminController) VerifyAuth(c *gin.Context) {
	var input verifyAuthInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"authorized": false, "error": "No token provided"})
		return
	}

	identity, err := a.Gate.VerifyToken(c.Request.Context(), input.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"authorized": false, "error": "Invalid token"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"authorized": false, "error": err.Error()})
		}
		return
	}

	if !a.Gate.IsAdmin(identity.Email) {
		c.JSON(http.StatusOK, gin.H{
			"authorized": false,
			"error":      "Access denied. Your email is not in the admin whitelist.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"user":       identity,
	})
}

// requireAdmin gates a mutating action on a Bearer token held by an
// allow-listed admin. Returns nil after writing the error response.
func (a *AdminController) requireAdmin(c *gin.Context) *services.Identity {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided"})
		return nil
	}

	identity, err := a.Gate.VerifyAdmin(c.Request.Context(), token)
	switch {
	case err == nil:
		return identity
	case errors.Is(err, services.ErrNotAuthorized):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Not authorized"})
	case errors.Is(err, services.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
	return nil
}

// Sync triggers a spreadsheet import into staging.
func (a *AdminController) Sync(c *gin.Context) {
	identity := a.requireAdmin(c)
	if identity == nil {
		return
	}

	report, err := a.Importer.Sync(c.Request.Context(), identity.Email)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrHeaderMismatch) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"syncedBy":  identity.Email,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"report":    report,
	})
}

// Publish copies staging to production, backup first.
func (a *AdminController) Publish(c *gin.Context) {
	identity := a.requireAdmin(c)
	if identity == nil {
		return
	}

	result, err := a.Pub.Publish(identity.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Menu published successfully",
		"publishedBy": result.PublishedBy,
		"timestamp":   result.Timestamp.Format(time.RFC3339),
		"itemCount":   result.ItemCount,
		"backup":      result.Backup,
	})
}

// Deploy commits and pushes the published menu, streaming git output
// back as chunked text. Auth failures are JSON before the stream
// starts; anything after that is reported inline.
func (a *AdminController) Deploy(c *gin.Context) {
	identity := a.requireAdmin(c)
	if identity == nil {
		return
	}

	var production models.MenuDocument
	err := a.DB.First(&production, "slot = ?", models.SlotProduction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Production menu not found. Publish first."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Transfer-Encoding", "chunked")
	c.Status(http.StatusOK)

	w := flushWriter{c.Writer}
	_ = a.Deployer.Run(c.Request.Context(), &production, identity.Email, w)
}

// ExportCSV streams the production menu in the master sheet's CSV
// layout so the sheet can be rebuilt from what is live.
func (a *AdminController) ExportCSV(c *gin.Context) {
	identity := a.requireAdmin(c)
	if identity == nil {
		return
	}

	var production models.MenuDocument
	err := a.DB.First(&production, "slot = ?", models.SlotProduction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Production menu not found.")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="menu_export.csv"`)
	c.Status(http.StatusOK)

	if err := services.ExportMenuCSV(&production, c.Writer); err != nil {
		// Headers are already sent; the truncated body is the client's
		// only signal, so record the failure server-side.
		log.Printf("CSV export aborted mid-stream: %v", err)
	}
}

// Stats reports item counts and sync/publish timestamps for the admin
// overview. Timestamps render as the literal "Never" when a slot has
// never been written.
func (a *AdminController) Stats(c *gin.Context) {
	var staging, production models.MenuDocument

	stagingErr := a.DB.First(&staging, "slot = ?", models.SlotStaging).Error
	if stagingErr != nil && !errors.Is(stagingErr, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, stagingErr.Error())
		return
	}
	productionErr := a.DB.First(&production, "slot = ?", models.SlotProduction).Error
	if productionErr != nil && !errors.Is(productionErr, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, productionErr.Error())
		return
	}

	hasStaging := stagingErr == nil
	hasProduction := productionErr == nil

	totalItems := 0
	previewItems := 0
	lastSync := "Never"
	lastPublish := "Never"
	hasChanges := false

	if hasProduction {
		totalItems = production.TotalItems()
		lastPublish = production.LastUpdated.UTC().Format(time.RFC3339)
	}
	if hasStaging {
		previewItems = staging.TotalItems()
		lastSync = staging.LastUpdated.UTC().Format(time.RFC3339)
		if hasProduction {
			hasChanges = !sectionsEqual(&staging, &production)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalItems":   totalItems,
		"previewItems": previewItems,
		"hasChanges":   hasChanges,
		"lastSync":     lastSync,
		"lastPublish":  lastPublish,
	})
}

// History lists the 10 newest publish backups.
func (a *AdminController) History(c *gin.Context) {
	var backups []models.MenuBackup
	if err := a.DB.Order("created_at desc").Limit(10).Find(&backups).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	history := make([]gin.H, 0, len(backups))
	for _, b := range backups {
		history = append(history, gin.H{
			"filename":  b.Filename,
			"timestamp": b.CreatedAt.UTC().Format(time.RFC3339),
			"size":      b.Size,
		})
	}

	c.JSON(http.StatusOK, history)
}

func (a *AdminController) Health(c *gin.Context) {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": env,
	})
}

// sectionsEqual compares only the published content, not the
// update-metadata, so re-publishing identical content clears the
// "unpublished changes" flag.
func sectionsEqual(a, b *models.MenuDocument) bool {
	aJSON, err := json.Marshal(gin.H{"beachDrinks": a.BeachDrinks, "roomService": a.RoomService})
	if err != nil {
		return false
	}
	bJSON, err := json.Marshal(gin.H{"beachDrinks": b.BeachDrinks, "roomService": b.RoomService})
	if err != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}

// flushWriter pushes each chunk to the client immediately so a slow
// git push shows progress instead of buffering until the end.
type flushWriter struct {
	w gin.ResponseWriter
}

func (fw flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	fw.w.Flush()
	return n, err
}
