package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/models"
	"vibe-service/internal/services"
	"vibe-service/internal/telemetry"
)

// EventHandler serves event discovery and administration.
type EventHandler struct {
	events *services.EventService
	audit  *telemetry.AuditEmitter
}

func NewEventHandler(events *services.EventService, audit *telemetry.AuditEmitter) *EventHandler {
	return &EventHandler{events: events, audit: audit}
}

type createEventRequest struct {
	Title       string         `json:"title" form:"title"`
	Description string         `json:"description" form:"description"`
	Latitude    *float64       `json:"latitude" form:"latitude"`
	Longitude   *float64       `json:"longitude" form:"longitude"`
	Privacy     models.Privacy `json:"privacy" form:"privacy"`
	StartTime   *time.Time     `json:"start_time" form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CreateEvent accepts JSON or a multipart form with "photos" files.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	in := services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Privacy:     req.Privacy,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err == nil {
			for _, fh := range form.File["photos"] {
				photo, err := readPhoto(fh)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo", "code": "validation"})
					return
				}
				in.Photos = append(in.Photos, photo)
			}
		}
	}

	event, err := h.events.Create(c.Request.Context(), userIDFromContext(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	audit(c, h.audit, "event.create", event.ID, event.Title)
	c.JSON(http.StatusCreated, event)
}

// Nearby lists events around ?lat=&lng=&radius_km=.
func (h *EventHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required", "code": "validation"})
		return
	}
	var radius float64
	if raw := c.Query("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km", "code": "validation"})
			return
		}
		radius = parsed
	}

	events, err := h.events.Nearby(c.Request.Context(), userIDFromContext(c), lat, lng, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ActiveEvent returns the caller's current unexpired event.
func (h *EventHandler) ActiveEvent(c *gin.Context) {
	event, err := h.events.Active(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) TogglePrivacy(c *gin.Context) {
	event, err := h.events.TogglePrivacy(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	audit(c, h.audit, "event.privacy", event.ID, string(event.Privacy))
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")
	if err := h.events.Delete(c.Request.Context(), userIDFromContext(c), eventID); err != nil {
		respondError(c, err)
		return
	}
	audit(c, h.audit, "event.delete", eventID, "event deleted")
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Attend(c *gin.Context) {
	if err := h.events.Attend(c.Request.Context(), userIDFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.AttendanceGoing})
}

func (h *EventHandler) Attendees(c *gin.Context) {
	attendees, err := h.events.Attendees(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}

func (h *EventHandler) Hosts(c *gin.Context) {
	hosts, err := h.events.Hosts(c.Request.Context(), c.Param("id"), models.AttendanceStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hosts)
}

type inviteHostRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *EventHandler) InviteHost(c *gin.Context) {
	var req inviteHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}
	eventID := c.Param("id")
	if err := h.events.InviteHost(c.Request.Context(), userIDFromContext(c), eventID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	audit(c, h.audit, "event.invite_host", eventID, req.UserID)
	c.JSON(http.StatusCreated, gin.H{"status": models.AttendancePending})
}

func (h *EventHandler) AcceptHost(c *gin.Context) {
	if err := h.events.AcceptHost(c.Request.Context(), userIDFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.AttendanceAccepted})
}
