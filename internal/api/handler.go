package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SanderSepp/omicron-app/internal/guidance"
	"github.com/SanderSepp/omicron-app/internal/hazards"
	"github.com/SanderSepp/omicron-app/internal/models"
	"github.com/SanderSepp/omicron-app/internal/resources"
	"github.com/SanderSepp/omicron-app/internal/session"
	"github.com/SanderSepp/omicron-app/internal/simulation"
	"github.com/SanderSepp/omicron-app/internal/state"
)

// WeatherSource exposes the most recent weather report, if any.
type WeatherSource interface {
	Latest() *models.WeatherReport
}

// HelpRequestSource lists live help requests.
type HelpRequestSource interface {
	List() []simulation.HelpRequest
}

type Deps struct {
	Store        state.Store
	Sessions     *session.Manager
	Orchestrator *resources.Orchestrator
	Custom       *resources.CustomStore
	Hazards      *hazards.Set
	Weather      WeatherSource     // optional
	Help         HelpRequestSource // optional

	RadiusMeters  int
	DefaultCenter models.Coordinate
	AdminToken    string
}

type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/resources", h.getResources)
	api.GET("/hazards", h.getHazards)
	api.GET("/guidance", h.getGuidance)
	api.GET("/weather", h.getWeather)
	api.GET("/event", h.getEvent)
	api.PUT("/event", h.putEvent)
	api.GET("/profiles", h.getProfiles)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.GET("/help-requests", h.getHelpRequests)
	api.GET("/state/stream", h.streamState)
	api.POST("/points", h.createPoint)

	sess := api.Group("/sessions")
	sess.POST("", h.createSession)
	sess.GET("/:id", h.getSession)
	sess.DELETE("/:id", h.deleteSession)
	sess.PUT("/:id/origin", h.putOrigin)
	sess.POST("/:id/select", h.selectPoint)
	sess.DELETE("/:id/select", h.clearSelection)
	sess.POST("/:id/placement", h.beginPlacement)
	sess.DELETE("/:id/placement", h.clearPlacement)
	sess.GET("/:id/route", h.getRoute)
	sess.POST("/:id/categories/toggle", h.toggleCategory)
	sess.POST("/:id/categories/all", h.showAllCategories)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// session looks up the session named by the X-Session-ID header or the
// session query param. Writes the error response on failure.
func (h *Handler) session(c *gin.Context, id string) (*session.Session, bool) {
	s, ok := h.deps.Sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return nil, false
	}
	return s, true
}

func (h *Handler) createSession(c *gin.Context) {
	var body struct {
		AdminToken string `json:"adminToken"`
	}
	// An empty body is a regular session.
	_ = c.ShouldBindJSON(&body)

	admin := h.deps.AdminToken != "" && body.AdminToken == h.deps.AdminToken
	s := h.deps.Sessions.Create(admin)
	c.JSON(http.StatusCreated, gin.H{"sessionId": s.ID, "admin": admin})
}

func (h *Handler) getSession(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}

	status, _ := s.Route.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"sessionId":        s.ID,
		"admin":            s.Admin,
		"visibility":       s.Filter.Visibility(),
		"selected":         s.Selection.Selected(),
		"pendingPlacement": s.Selection.PendingPlacement(),
		"origin":           s.Origin(),
		"route":            gin.H{"status": status},
	})
}

func (h *Handler) deleteSession(c *gin.Context) {
	h.deps.Sessions.Remove(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) putOrigin(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}

	var body struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid origin"})
		return
	}
	origin, err := models.NewCoordinate(body.Lat, body.Lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.SetOrigin(origin)
	c.Status(http.StatusNoContent)
}

func (h *Handler) selectPoint(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}

	var point models.ResourcePoint
	if err := c.ShouldBindJSON(&point); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid point"})
		return
	}
	if !point.Coordinate().Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
		return
	}

	s.SelectPoint(point)
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearSelection(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}
	s.ClearSelection()
	c.Status(http.StatusNoContent)
}

func (h *Handler) beginPlacement(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}

	var body struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placement coordinate"})
		return
	}
	coord, err := models.NewCoordinate(body.Lat, body.Lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.BeginPlacement(coord); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearPlacement(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}
	s.Selection.ClearPlacement()
	c.Status(http.StatusNoContent)
}

func (h *Handler) getRoute(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}

	status, route := s.Route.Snapshot()
	c.JSON(http.StatusOK, gin.H{"status": status, "route": route})
}

func (h *Handler) toggleCategory(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}

	var body struct {
		Category models.Category `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	s.Filter.ToggleCategory(body.Category)
	c.JSON(http.StatusOK, gin.H{"visibility": s.Filter.Visibility()})
}

func (h *Handler) showAllCategories(c *gin.Context) {
	s, ok := h.session(c, c.Param("id"))
	if !ok {
		return
	}
	s.Filter.ShowAll()
	c.JSON(http.StatusOK, gin.H{"visibility": s.Filter.Visibility()})
}

func (h *Handler) getResources(c *gin.Context) {
	ctx := c.Request.Context()

	event, err := h.deps.Store.Event(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read event state"})
		return
	}

	visibility := resources.EventDefaults(event)
	center := h.deps.DefaultCenter
	var origin *models.Coordinate

	if id := c.Query("session"); id != "" {
		s, ok := h.session(c, id)
		if !ok {
			return
		}
		visibility = s.Filter.Visibility()
		if o := s.Origin(); o != nil {
			origin = o
			center = *o
		}
	}

	points, err := h.deps.Orchestrator.FetchResources(ctx, center, visibility, h.deps.RadiusMeters, event)
	if err != nil {
		if errors.Is(err, models.ErrNetwork) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "resource lookup unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch resources"})
		return
	}

	points = append(points, visibleCustomPoints(h.deps.Custom.List(), visibility)...)
	points = resources.FilterBySearch(points, c.Query("search"))
	points = resources.SortByDistance(points, origin)

	if c.Query("format") == "geojson" {
		c.Header("Content-Type", "application/geo+json")
		c.JSON(http.StatusOK, pointsToGeoJSON(points))
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": points})
}

// visibleCustomPoints filters placed points by the category toggles.
// Points with an unknown category are always shown.
func visibleCustomPoints(points []models.ResourcePoint, visibility models.CategoryVisibility) []models.ResourcePoint {
	visible := make(map[models.Category]bool)
	for _, cat := range visibility.Categories() {
		visible[cat] = true
	}

	out := points[:0:0]
	for _, p := range points {
		if p.Category == models.CategoryUnknown || visible[p.Category] {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) createPoint(c *gin.Context) {
	s, ok := h.session(c, c.GetHeader("X-Session-ID"))
	if !ok {
		return
	}
	if !s.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "placement requires admin access"})
		return
	}

	var point models.ResourcePoint
	if err := c.ShouldBindJSON(&point); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid point"})
		return
	}

	created, err := h.deps.Custom.Add(point)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Placing a point ends placement mode.
	s.Selection.ClearPlacement()
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getHazards(c *gin.Context) {
	event, err := h.deps.Store.Event(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read event state"})
		return
	}

	fc := overlaysToGeoJSON(h.deps.Hazards.OverlaysFor(event))
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getGuidance(c *gin.Context) {
	ctx := c.Request.Context()

	event, err := h.deps.Store.Event(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read event state"})
		return
	}
	profile, err := h.deps.Store.Profile(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read profile"})
		return
	}

	keys := guidance.ActiveKeys(event, profile)
	c.JSON(http.StatusOK, gin.H{
		"keys":    keys,
		"entries": guidance.Select(keys),
	})
}

func (h *Handler) getWeather(c *gin.Context) {
	if h.deps.Weather == nil {
		c.Status(http.StatusNoContent)
		return
	}
	report := h.deps.Weather.Latest()
	if report == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.deps.Store.Event(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read event state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *Handler) putEvent(c *gin.Context) {
	var body struct {
		Event string `json:"event"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}
	event, err := models.ParseEventState(body.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deps.Store.SetEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write event state"})
		return
	}
	h.deps.Sessions.SetEvent(event)

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *Handler) getProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": models.Presets()})
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.deps.Store.Profile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) putProfile(c *gin.Context) {
	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile"})
		return
	}
	if profile.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile name is required"})
		return
	}

	// Selecting a preset by name alone fills in its attributes.
	if preset, ok := models.PresetByName(profile.Name); ok && profile.Age == 0 {
		profile = preset
	}

	if err := h.deps.Store.SetProfile(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) getHelpRequests(c *gin.Context) {
	if h.deps.Help == nil {
		c.JSON(http.StatusOK, gin.H{"requests": []simulation.HelpRequest{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": h.deps.Help.List()})
}

// streamState pushes event/profile changes to the client as SSE, so every
// open view converges without polling.
func (h *Handler) streamState(c *gin.Context) {
	id, ch := h.deps.Store.Subscribe()
	defer h.deps.Store.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", change)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
