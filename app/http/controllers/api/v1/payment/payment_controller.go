// Package payment exposes the owner-facing payment endpoints and
// the gateway notification ingress.
package payment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"sekolah/app/http/middlewares"
	"sekolah/app/repositories"
	"sekolah/app/requests"
	"sekolah/pkg/errs"
	"sekolah/pkg/gateway/midtrans"
	"sekolah/pkg/logger"
	"sekolah/pkg/reconcile"
	"sekolah/pkg/response"
)

// SignatureVerifier authenticates inbound webhook payloads.
// Implemented by the midtrans client.
type SignatureVerifier interface {
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
}

// PaymentController handles the owner payment surface.
type PaymentController struct {
	engine   *reconcile.Engine
	verifier SignatureVerifier
}

// NewPaymentController wires the controller.
func NewPaymentController(engine *reconcile.Engine, verifier SignatureVerifier) *PaymentController {
	return &PaymentController{
		engine:   engine,
		verifier: verifier,
	}
}

// Index lists the caller's payments, newest first.
// GET /v1/payments
func (pc *PaymentController) Index(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	regs := repositories.NewRegistrationRepository()
	reg, err := regs.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	page := cast.ToInt(c.DefaultQuery("page", "1"))
	perPage := cast.ToInt(c.DefaultQuery("per_page", "10"))

	payments := repositories.NewPaymentRepository()
	list, total, err := payments.ListForOwner(c.Request.Context(), reg.ID, page, perPage)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Data(c, gin.H{
		"payments": list,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Show returns one payment with its items and audit trail. A foreign
// id responds 404, never 403.
// GET /v1/payments/:id
func (pc *PaymentController) Show(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	regs := repositories.NewRegistrationRepository()
	reg, err := regs.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	payments := repositories.NewPaymentRepository()
	p, err := payments.FindForOwnerWithNotifications(c.Request.Context(), reg.ID, cast.ToUint64(c.Param("id")))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Data(c, p)
}

// Store creates a payment and returns the checkout handle.
// POST /v1/payments
func (pc *PaymentController) Store(c *gin.Context) {
	req, err := requests.ValidateStorePayment(c)
	if err != nil {
		var vErr requests.ValidationError
		if errors.As(err, &vErr) {
			response.ValidationError(c, vErr.Errors)
			return
		}
		response.BadRequest(c, err)
		return
	}

	items := make([]reconcile.ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = reconcile.ItemInput{
			Name:        item.ItemName,
			Description: item.ItemDescription,
			Quantity:    item.Quantity,
			Price:       decimal.NewFromFloat(item.Price),
		}
	}

	userID := c.GetString(middlewares.ContextUserID)
	result, err := pc.engine.CreatePayment(c.Request.Context(), userID, req.PaymentType, items, req.Notes)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Created(c, gin.H{
		"payment":    result.Payment,
		"snap_token": result.Checkout.Token,
		"snap_url":   result.Checkout.RedirectURL,
	}, "payment created")
}

// Cancel voids the caller's pending payment.
// POST /v1/payments/:id/cancel
func (pc *PaymentController) Cancel(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	p, err := pc.engine.Cancel(c.Request.Context(), userID, cast.ToUint64(c.Param("id")))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Data(c, p)
}

// SyncStatus polls the gateway for the caller's payment and applies
// the result through the same path the webhook takes.
// POST /v1/payments/:id/sync-status
func (pc *PaymentController) SyncStatus(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	p, err := pc.engine.SyncStatus(c.Request.Context(), userID, cast.ToUint64(c.Param("id")))
	if err != nil {
		if errs.IsUnmappedStatus(err) {
			// audit row landed; the caller sees the unchanged payment
			response.Data(c, p)
			return
		}
		response.AppError(c, err)
		return
	}

	response.Data(c, p)
}

// Notification is the gateway webhook ingress.
// POST /v1/payments/notification
//
// The gateway retries anything but 2xx, so the response code is the
// contract: malformed payloads get 4xx (retrying garbage is
// pointless), everything resolvable is acknowledged even when it
// changes nothing.
func (pc *PaymentController) Notification(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.BadRequest(c, err, "malformed notification payload")
		return
	}

	report := midtrans.ParseStatusReport(raw)
	if report.OrderID == "" {
		response.Abort400(c, "notification missing order_id")
		return
	}

	signatureKey := cast.ToString(raw["signature_key"])
	if !pc.verifier.VerifySignature(report.OrderID, report.StatusCode, report.GrossAmount, signatureKey) {
		logger.WarnString("webhook", "signature", "invalid signature for order "+report.OrderID)
		response.Abort401(c, "invalid signature")
		return
	}

	_, err := pc.engine.ApplyStatusUpdate(c.Request.Context(), report.OrderID, report)
	switch {
	case err == nil:
		response.JSON(c, gin.H{"success": true, "message": "OK"})
	case errs.IsNotFound(err):
		// a legitimate but unknown order: acknowledge so the gateway
		// stops retrying, keep the trace in the logs
		logger.WarnString("webhook", "unknown_order", report.OrderID)
		response.JSON(c, gin.H{"success": true, "message": "ignored: unknown order"})
	case errs.IsUnmappedStatus(err):
		// loud internal alert, quiet external ack
		logger.ErrorString("webhook", "unmapped_status", err.Error())
		response.JSON(c, gin.H{"success": true, "message": "ignored: unrecognized status"})
	default:
		logger.ErrorString("webhook", "apply", err.Error())
		response.Abort500(c)
	}
}
