package server

import (
	"encoding/base64"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"pigdevice/src/helpers"
	"pigdevice/src/models"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// -----------------------------------------------------------------------------
// Mutation Handlers
// -----------------------------------------------------------------------------

// applyAndPush runs the mutation through the store and fans the result out
// while the device is still locked, so apply-then-publish is atomic with
// respect to other mutations of the same device.
func (s *WebServer) applyAndPush(deviceID string, m models.MMutation, source string) models.MDeviceState {
	state := s.store.Update(deviceID, m, s.PushDeviceState)
	s.metrics.MutationsApplied.WithLabelValues(source).Inc()
	return state
}

// -----------------------------------------------------------------------------

// POST /api/:deviceId/add/:cents - simulate money being added
func (s *WebServer) addCents(c *gin.Context) {
	cents, err := strconv.ParseInt(c.Param("cents"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cents must be an integer"})
		return
	}

	state := s.applyAndPush(c.Param("deviceId"), models.MMutation{DeltaCents: &cents}, "http")
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": state})
}

// -----------------------------------------------------------------------------

// POST /api/:deviceId/set/:cents - set the absolute balance
func (s *WebServer) setCents(c *gin.Context) {
	cents, err := strconv.ParseInt(c.Param("cents"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cents must be an integer"})
		return
	}

	state := s.applyAndPush(c.Param("deviceId"), models.MMutation{AbsoluteCents: &cents}, "http")
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": state})
}

// -----------------------------------------------------------------------------

// POST /api/:deviceId/simulate - simulate an inbound telemetry message
// Body: {amountCents: number, currency?: string}
func (s *WebServer) simulateTelemetry(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}

	amount := safeCents(body, "amountCents")
	if amount == nil {
		// No state mutation on validation failure
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "amountCents must be a number"})
		return
	}

	m := models.MMutation{
		AbsoluteCents: amount,
		Currency:      safeString(body, "currency"),
	}

	state := s.applyAndPush(c.Param("deviceId"), m, "http")
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": state})
}

// -----------------------------------------------------------------------------
// Outbound Telemetry
// -----------------------------------------------------------------------------

// POST /api/publish - publish a payload on the telemetry channel
func (s *WebServer) publishTelemetry(c *gin.Context) {
	var req models.MPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
		return
	}
	if req.Topic == "" || req.Payload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "topic and payload are required"})
		return
	}

	if err := s.adapter.Publish(req.Topic, req.Payload); err != nil {
		s.Logger.Error("Publish to %s failed: %v", req.Topic, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "topic": req.Topic, "payload": req.Payload})
}

// -----------------------------------------------------------------------------
// Device Page
// -----------------------------------------------------------------------------

// GET /:deviceId - balance page with QR donation code
func (s *WebServer) devicePage(c *gin.Context) {
	deviceID := c.Param("deviceId")
	state := s.store.GetOrCreate(deviceID)

	donationURL := s.Config.DonationBaseURL + "/" + deviceID
	png, err := qrcode.Encode(donationURL, qrcode.Medium, 220)
	if err != nil {
		s.Logger.Error("QR generation for %s failed: %v", deviceID, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.HTML(http.StatusOK, "device.html", gin.H{
		"DeviceID":        deviceID,
		"Clock":           helpers.ClockLabel(time.Now()),
		"AmountFormatted": helpers.FormatAmount(state.AmountCents, state.Currency),
		"QRPngDataURL":    template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	})
}

// -----------------------------------------------------------------------------
// Health
// -----------------------------------------------------------------------------

// GET /api/health
func (s *WebServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"telemetry":      s.adapter.Connected(),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	})
}
