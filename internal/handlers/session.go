package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/services"
)

const maxUploadBytes = 10 << 20

// loadSession builds the request session or writes the error response.
func loadSession(c *gin.Context, loader services.ProfileLoader) (*services.Session, bool) {
	userID := userIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	session, err := services.NewSession(c.Request.Context(), loader, userID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}

func readPhoto(fh *multipart.FileHeader) (services.Photo, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Photo{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return services.Photo{}, err
	}
	return services.Photo{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}
