// internal/handlers/processing.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"creditpix-back/internal/imageproc"
	"creditpix-back/internal/session"
	"creditpix-back/internal/storage"
	"creditpix-back/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordView is a record plus resolved download URLs for its references.
type RecordView struct {
	imageproc.Record
	OriginalURL  string `json:"original_url,omitempty"`
	ProcessedURL string `json:"processed_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func UploadImage(orch *upload.Orchestrator, intake *imageproc.Intake, sessions *session.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		ctx := c.Request.Context()

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		defer f.Close()

		staged, err := intake.Stage(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, f, nil)
		if err != nil {
			if errors.Is(err, imageproc.ErrUnsupportedType) || errors.Is(err, imageproc.ErrTooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage file"})
			return
		}
		defer staged.Discard()

		profile, err := sessions.Profile(ctx, userID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to read credit balance"})
			return
		}

		result, err := orch.AttemptUpload(ctx, userID, profile.Credits, staged)
		switch {
		case errors.Is(err, upload.ErrAuthRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in to upload images"})
			return
		case errors.Is(err, upload.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Not enough credits. Please add more credits to continue."})
			return
		case errors.Is(err, upload.ErrCreditUpdate):
			// Processing was already submitted; keep the record and tell the
			// user the balance may be stale.
			c.JSON(http.StatusAccepted, gin.H{
				"record":  result.Record,
				"balance": result.NewBalance,
				"warning": "Upload accepted but the credit balance could not be updated",
			})
			return
		case err != nil:
			logger.Error("upload failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"record":  result.Record,
			"balance": result.NewBalance,
		})
	}
}

func GetHistory(svc *imageproc.Service, objects storage.ObjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		records := svc.List(userID)
		views := make([]RecordView, 0, len(records))
		for _, rec := range records {
			views = append(views, resolveRecord(c, objects, rec, logger))
		}

		c.JSON(http.StatusOK, views)
	}
}

func GetImage(svc *imageproc.Service, objects storage.ObjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
			return
		}

		rec, ok := svc.Get(id)
		if !ok || rec.OwnerID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}

		c.JSON(http.StatusOK, resolveRecord(c, objects, rec, logger))
	}
}

// WaitImage long-polls until the record leaves the processing state. The
// client tearing down the request cancels the wait.
func WaitImage(watcher *imageproc.Watcher, svc *imageproc.Service, objects storage.ObjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
			return
		}

		if rec, ok := svc.Get(id); !ok || rec.OwnerID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}

		rec, err := watcher.Wait(c.Request.Context(), id)
		switch {
		case errors.Is(err, imageproc.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Image was removed"})
			return
		case err != nil:
			// Client went away; nothing to answer.
			return
		}

		c.JSON(http.StatusOK, resolveRecord(c, objects, rec, logger))
	}
}

func DeleteImage(svc *imageproc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
			return
		}

		if rec, ok := svc.Get(id); ok && rec.OwnerID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}

		svc.Remove(c.Request.Context(), id)
		c.Status(http.StatusNoContent)
	}
}

func resolveRecord(c *gin.Context, objects storage.ObjectStore, rec imageproc.Record, logger *slog.Logger) RecordView {
	ctx := c.Request.Context()
	view := RecordView{Record: rec}

	var err error
	if view.OriginalURL, err = objects.PresignedURL(ctx, rec.OriginalRef); err != nil {
		logger.Warn("failed to presign original", "record_id", rec.ID, "error", err)
	}
	if rec.ProcessedRef != "" {
		if view.ProcessedURL, err = objects.PresignedURL(ctx, rec.ProcessedRef); err != nil {
			logger.Warn("failed to presign processed", "record_id", rec.ID, "error", err)
		}
	}
	if rec.ThumbnailRef != "" {
		if view.ThumbnailURL, err = objects.PresignedURL(ctx, rec.ThumbnailRef); err != nil {
			logger.Warn("failed to presign thumbnail", "record_id", rec.ID, "error", err)
		}
	}
	return view
}
